// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

// rmCommand removes files and empty directories.
type rmCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&rmCommand{baseCommand{name: "rm", description: "Remove files and directories"}})
}

// Run executes the rm command. There is no recursive mode: a directory must
// be emptied first.
func (c *rmCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	if len(args) < 2 {
		return fmt.Errorf("%s: missing operand", c.name)
	}

	for _, path := range args[1:] {
		if err := hc.FS.Remove(ctx, path); err != nil {
			return fmt.Errorf("%s: cannot remove '%s': %s", c.name, path, reason(err))
		}
	}
	return nil
}
