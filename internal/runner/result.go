// SPDX-License-Identifier: MPL-2.0

package runner

type (
	// Result represents the outcome of one batch execution.
	Result struct {
		// ExitCode is the process exit code (0 on success).
		ExitCode int
		// Output contains captured stdout in headless mode.
		Output string
		// ErrOutput contains captured stderr in headless mode.
		ErrOutput string
		// Cancelled is set when the batch was terminated through Cancel.
		Cancelled bool
		// Message carries human-readable context for results that have no
		// captured streams, such as terminal-mode runs.
		Message string
	}
)

// Success returns true if the batch completed with a zero exit code and
// was not cancelled.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.Cancelled
}
