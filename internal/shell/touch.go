// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

// touchCommand creates empty files.
type touchCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&touchCommand{baseCommand{name: "touch", description: "Create empty file"}})
}

// Run executes the touch command. Existing files keep their content; only
// their modification time changes.
func (c *touchCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	if len(args) < 2 {
		return fmt.Errorf("%s: missing file operand", c.name)
	}

	for _, path := range args[1:] {
		if err := hc.FS.WriteFile(ctx, path, "", true); err != nil {
			return fmt.Errorf("%s: cannot touch '%s': %s", c.name, path, reason(err))
		}
	}
	return nil
}
