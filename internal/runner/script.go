// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"fmt"
	"strings"

	"psdash-cli/internal/catalog"
)

// NormalizeCommand renders one catalog command as a line of PowerShell.
// Inline command text is used verbatim after trimming; script-backed
// commands become a call-operator invocation with the path quoted and
// embedded quotes backtick-escaped.
func NormalizeCommand(cmd *catalog.Command) string {
	if text := strings.TrimSpace(cmd.CommandText); text != "" {
		return text
	}
	escaped := strings.ReplaceAll(cmd.ScriptPath, `"`, "`\"")
	return fmt.Sprintf(`& "%s"`, escaped)
}

// BuildScript joins the normalized commands into one batch script,
// preserving order.
func BuildScript(cmds []catalog.Command) string {
	lines := make([]string, len(cmds))
	for i := range cmds {
		lines[i] = NormalizeCommand(&cmds[i])
	}
	return strings.Join(lines, "\n")
}

// WrapScript wraps a batch script in the error-continuation harness.
// Individual command failures keep the batch going ('Continue'), the
// try/catch converts engine-level failures into a nonzero exit, and the
// explicit exits make the process exit code trustworthy.
func WrapScript(script string) string {
	wrapped := fmt.Sprintf(`
$ErrorActionPreference = 'Continue'
try {
%s
  exit 0
} catch {
  Write-Error $_.Exception.Message
  exit 1
}
`, script)
	return strings.TrimSpace(wrapped)
}

// ShellArgs returns the argument vector used to execute a wrapped script:
// no profile, bypassed execution policy, inline command.
func ShellArgs(wrapped string) []string {
	return []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", wrapped}
}
