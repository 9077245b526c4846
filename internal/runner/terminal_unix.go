// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ptyHost runs the interactive shell inside a pseudo-terminal and mirrors
// its output to the process stdout.
type ptyHost struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	tty  *os.File
	out  io.Writer
	done chan struct{}
}

// NewTerminalHost creates the platform terminal host.
func NewTerminalHost() TerminalHost {
	return &ptyHost{out: os.Stdout}
}

func (h *ptyHost) Show(ctx context.Context, session Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil {
		return nil // already visible
	}

	cmd := exec.CommandContext(ctx, session.ShellPath, "-NoProfile", "-ExecutionPolicy", "Bypass")
	cmd.Dir = session.Cwd
	cmd.Env = mergedEnv(session.Env)
	tty, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start interactive shell: %w", err)
	}

	h.cmd = cmd
	h.tty = tty
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		_, _ = io.Copy(h.out, tty)
	}()
	return nil
}

func (h *ptyHost) SendText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tty == nil {
		return fmt.Errorf("terminal session not started")
	}
	_, err := h.tty.WriteString(text + "\n")
	return err
}

func (h *ptyHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd == nil {
		return nil
	}
	_ = h.tty.Close()
	err := h.cmd.Process.Kill()
	_, _ = h.cmd.Process.Wait()
	h.cmd = nil
	h.tty = nil
	return err
}
