// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

// mkdirCommand creates directories.
type mkdirCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&mkdirCommand{baseCommand{
		name:        "mkdir",
		description: "Create directory",
		flags: []FlagInfo{
			{Name: "parents", ShortName: "p", Description: "make parent directories as needed, no error if existing"},
		},
	}})
}

// Run executes the mkdir command. It stops at the first directory that
// cannot be created.
func (c *mkdirCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := newFlagSet(c.name)
	parents := fs.BoolP("parents", "p", false, "make parent directories as needed")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%s: missing operand", c.name)
	}

	create := hc.FS.CreateDirectory
	if *parents {
		create = hc.FS.CreateDirectoryAll
	}
	for _, dir := range fs.Args() {
		if err := create(ctx, dir); err != nil {
			return fmt.Errorf("%s: cannot create directory '%s': %s", c.name, dir, reason(err))
		}
	}
	return nil
}
