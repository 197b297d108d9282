// SPDX-License-Identifier: MPL-2.0

// Command tos boots Tasnuva TOS, a simulated terminal operating system.
package main

import cmd "github.com/tasnuva/tos/cmd/tos"

func main() {
	cmd.Execute()
}
