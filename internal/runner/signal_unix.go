// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runner

import (
	"os"
	"syscall"
)

// terminateProcess asks the process to stop. SIGTERM gives PowerShell a
// chance to run finally blocks before dying.
func terminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
