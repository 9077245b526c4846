// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runner

import "os"

// terminateProcess stops the process. Windows has no SIGTERM delivery for
// console children started this way, so this is a hard kill.
func terminateProcess(p *os.Process) error {
	return p.Kill()
}
