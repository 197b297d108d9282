// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/tasnuva/tos/internal/vfs"
)

// cdCommand moves the session cursor.
type cdCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&cdCommand{baseCommand{name: "cd", description: "Change directory"}})
}

// Run executes the cd command. Without an argument it goes to the root.
func (c *cdCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	path := vfs.Root
	if len(args) > 1 {
		path = args[1]
	}
	if err := hc.FS.ChangeDirectory(ctx, path); err != nil {
		if errors.Is(err, vfs.ErrNotFound) {
			return fmt.Errorf("%s: %s: No such directory", c.name, path)
		}
		return fmt.Errorf("%s: %s: %w", c.name, path, err)
	}
	return nil
}
