// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// consoleHost runs the interactive shell attached to the current console.
// Windows has no Unix-style pty; piping stdin while inheriting the output
// handles gives a workable interactive session.
type consoleHost struct {
	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// NewTerminalHost creates the platform terminal host.
func NewTerminalHost() TerminalHost {
	return &consoleHost{}
}

func (h *consoleHost) Show(ctx context.Context, session Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil {
		return nil // already visible
	}

	cmd := exec.CommandContext(ctx, session.ShellPath, "-NoProfile", "-ExecutionPolicy", "Bypass")
	cmd.Dir = session.Cwd
	cmd.Env = mergedEnv(session.Env)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open shell stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start interactive shell: %w", err)
	}

	h.cmd = cmd
	h.stdin = stdin
	return nil
}

func (h *consoleHost) SendText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stdin == nil {
		return fmt.Errorf("terminal session not started")
	}
	_, err := io.WriteString(h.stdin, text+"\r\n")
	return err
}

func (h *consoleHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd == nil {
		return nil
	}
	_ = h.stdin.Close()
	err := h.cmd.Process.Kill()
	_, _ = h.cmd.Process.Wait()
	h.cmd = nil
	h.stdin = nil
	return err
}
