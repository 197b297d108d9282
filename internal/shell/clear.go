// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"io"
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// clearCommand clears the terminal.
type clearCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&clearCommand{baseCommand{name: "clear", description: "Clear screen"}})
}

// Run executes the clear command.
func (c *clearCommand) Run(ctx context.Context, _ []string) error {
	_, err := io.WriteString(GetHandlerContext(ctx).Stdout, clearScreen)
	return err
}
