// SPDX-License-Identifier: MPL-2.0

// Package runner executes batches of catalog commands through PowerShell.
// Headless mode spawns a captured child process; terminal mode types the
// script into an interactive session. A runner executes at most one batch
// at a time.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"psdash-cli/internal/catalog"
	"psdash-cli/internal/config"
	"psdash-cli/internal/issue"
	"psdash-cli/internal/shell"

	"github.com/charmbracelet/log"
)

// ErrBusy is returned when a batch is started while another is running.
var ErrBusy = errors.New("a batch is already running")

// terminalMessage is the result message for terminal-mode runs, which
// produce no captured streams.
const terminalMessage = "interactive session started; no structured output available"

type (
	// Options control one batch execution.
	Options struct {
		Mode config.ExecutionMode
		// Elevated requests an elevated run. Elevation itself is not
		// performed; the runner logs an advisory and the batch executes
		// with the current token.
		Elevated bool
		// Cwd is the working directory for the batch; empty inherits the
		// current directory.
		Cwd string
		// Env holds extra environment variables layered over the current
		// environment.
		Env map[string]string
		// ElevationWaitTimeoutMs is cited in the elevation advisory.
		ElevationWaitTimeoutMs int
	}

	// Runner executes command batches. Safe for concurrent use; only one
	// batch runs at a time.
	Runner struct {
		terminal TerminalHost
		logger   *log.Logger

		mu           sync.Mutex
		busy         bool
		active       *os.Process
		cancelled    bool
		killOnCancel bool
	}
)

// New creates a runner. killOnCancel controls whether Cancel terminates
// the active process; it can be changed later through SetKillOnCancel.
func New(terminal TerminalHost, killOnCancel bool, logger *log.Logger) *Runner {
	return &Runner{terminal: terminal, killOnCancel: killOnCancel, logger: logger}
}

// SetKillOnCancel updates the cancel behavior. Wired to the configuration
// watcher so the setting applies to the batch already in flight.
func (r *Runner) SetKillOnCancel(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.killOnCancel = v
}

// IsBusy reports whether a batch is currently executing.
func (r *Runner) IsBusy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Cancel requests termination of the active batch. Returns true when a
// process was signalled. With kill-on-cancel disabled this is a no-op and
// the batch runs to completion.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return false
	}
	if !r.killOnCancel {
		r.logger.Info("cancel requested but kill_on_cancel is disabled; batch continues")
		return false
	}

	r.cancelled = true
	if err := terminateProcess(r.active); err != nil {
		r.logger.Warn("failed to terminate batch process", "err", err)
		return false
	}
	return true
}

// Run executes the given commands as one batch and blocks until the batch
// finishes. Returns ErrBusy (wrapped with guidance) when a batch is
// already in flight.
func (r *Runner) Run(ctx context.Context, cmds []catalog.Command, sh shell.Info, opts Options) (*Result, error) {
	if len(cmds) == 0 {
		return nil, errors.New("no commands to run")
	}

	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return nil, issue.NewErrorContext().
			WithOperation("start batch").
			WithSuggestion("Wait for the current batch to finish").
			WithSuggestion("Press Ctrl-C in the running session to cancel it").
			Wrap(ErrBusy).
			BuildError()
	}
	r.busy = true
	r.cancelled = false
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.busy = false
		r.active = nil
		r.mu.Unlock()
	}()

	// Elevation is advisory only: the batch runs with the current token
	// and commands needing more rights fail on their own.
	if opts.Elevated {
		r.logger.Warn("elevated execution requested; running without elevation",
			"elevation_wait_timeout_ms", opts.ElevationWaitTimeoutMs)
	}

	if opts.Mode == config.ModeTerminal {
		return r.runTerminal(ctx, cmds, sh, opts)
	}
	return r.runHeadless(ctx, cmds, sh, opts)
}

// mergedEnv layers extra variables over the current environment. Returns
// nil for an empty map so exec inherits the environment untouched.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// runHeadless spawns the shell with the wrapped batch script and captures
// both output streams.
func (r *Runner) runHeadless(ctx context.Context, cmds []catalog.Command, sh shell.Info, opts Options) (*Result, error) {
	wrapped := WrapScript(BuildScript(cmds))

	cmd := exec.CommandContext(ctx, sh.Path, ShellArgs(wrapped)...)
	cmd.Dir = opts.Cwd
	cmd.Env = mergedEnv(opts.Env)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("starting headless batch", "shell", sh.Name, "commands", len(cmds))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", sh.Name, err)
	}

	r.mu.Lock()
	r.active = cmd.Process
	r.mu.Unlock()

	waitErr := cmd.Wait()

	r.mu.Lock()
	cancelled := r.cancelled
	r.mu.Unlock()

	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
		Cancelled: cancelled,
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		result.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("batch process failed: %w", waitErr)
	}

	r.logger.Debug("headless batch finished",
		"exit_code", result.ExitCode, "cancelled", result.Cancelled)
	return result, nil
}

// runTerminal shows the interactive session and types the batch script
// into it. The session's exit status is not observable, so the result is
// immediate and carries no streams.
func (r *Runner) runTerminal(ctx context.Context, cmds []catalog.Command, sh shell.Info, opts Options) (*Result, error) {
	session := Session{ShellPath: sh.Path, Cwd: opts.Cwd, Env: opts.Env}
	if err := r.terminal.Show(ctx, session); err != nil {
		return nil, err
	}
	if err := r.terminal.SendText(BuildScript(cmds)); err != nil {
		return nil, fmt.Errorf("failed to send batch to terminal: %w", err)
	}
	return &Result{ExitCode: 0, Message: terminalMessage}, nil
}
