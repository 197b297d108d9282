// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

const (
	resetWarning = "This is a destructive operation. Please run 'reset --confirm' to proceed."
	resetDone    = "System has been reset to default state."
)

// resetCommand restores the initial filesystem.
type resetCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&resetCommand{baseCommand{
		name:        "reset",
		description: "Reset the system to its default state",
		flags: []FlagInfo{
			{Name: "confirm", Description: "actually discard every file and directory"},
		},
	}})
}

// Run executes the reset command. Without --confirm it only prints a warning.
func (c *resetCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := newFlagSet(c.name)
	confirm := fs.Bool("confirm", false, "discard every file and directory")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	if !*confirm {
		fmt.Fprintln(hc.Stdout, resetWarning)
		return nil
	}
	if err := hc.FS.Reset(ctx); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	fmt.Fprintln(hc.Stdout, resetDone)
	return nil
}
