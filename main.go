// SPDX-License-Identifier: MPL-2.0

package main

import cmd "psdash-cli/cmd/psdash"

func main() {
	cmd.Execute()
}
