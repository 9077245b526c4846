// SPDX-License-Identifier: MPL-2.0

package runner

import "context"

type (
	// Session describes the interactive shell a terminal host should run.
	// Cwd and Env are optional; zero values inherit from the current
	// process.
	Session struct {
		ShellPath string
		Cwd       string
		Env       map[string]string
	}

	// TerminalHost owns an interactive shell session for terminal-mode
	// runs. Implementations display the session to the user; the runner
	// only feeds it script text.
	TerminalHost interface {
		// Show makes the session visible, starting the shell if needed.
		Show(ctx context.Context, session Session) error
		// SendText types script text into the session.
		SendText(text string) error
		// Close tears the session down.
		Close() error
	}
)
