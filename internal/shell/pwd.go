// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

// pwdCommand prints the current directory.
type pwdCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&pwdCommand{baseCommand{name: "pwd", description: "Print working directory"}})
}

// Run executes the pwd command.
func (c *pwdCommand) Run(ctx context.Context, _ []string) error {
	hc := GetHandlerContext(ctx)
	fmt.Fprintln(hc.Stdout, hc.FS.CurrentDirectory())
	return nil
}
