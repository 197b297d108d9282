// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

// exitDescription is the help line of the exit built-in.
const exitDescription = "Exit Tasnuva TOS"

// helpCommand lists the available commands.
type helpCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&helpCommand{baseCommand{name: "help", description: "Show available commands"}})
}

// Run executes the help command.
func (c *helpCommand) Run(ctx context.Context, _ []string) error {
	hc := GetHandlerContext(ctx)
	if hc.Core != nil {
		for _, cmd := range hc.Core.Commands() {
			fmt.Fprintf(hc.Stdout, "%-10s - %s\n", cmd.Name(), cmd.Description())
		}
	}
	fmt.Fprintf(hc.Stdout, "%-10s - %s\n", exitCommand, exitDescription)
	return nil
}
