// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tasnuva/tos/internal/vfs"
)

const lsTimeLayout = "2006-01-02 15:04"

// lsCommand lists a directory.
type lsCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(newLsCommand())
}

func newLsCommand() *lsCommand {
	return &lsCommand{
		baseCommand: baseCommand{
			name:        "ls",
			description: "List directory contents",
			flags: []FlagInfo{
				{Name: "long", ShortName: "l", Description: "use a long listing format"},
			},
		},
	}
}

// Run executes the ls command.
func (c *lsCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := newFlagSet(c.name)
	long := fs.BoolP("long", "l", false, "use a long listing format")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	path := fs.Arg(0)
	entries, err := hc.FS.ListDirectory(ctx, path)
	if err != nil {
		shown := path
		if shown == "" {
			shown = "."
		}
		if errors.Is(err, vfs.ErrNotFound) {
			return fmt.Errorf("%s: cannot access '%s': No such directory", c.name, shown)
		}
		return fmt.Errorf("%s: cannot access '%s': %w", c.name, shown, err)
	}
	if len(entries) == 0 {
		return nil
	}

	if *long {
		return c.printLong(ctx, hc, path, entries)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = displayName(e)
	}
	fmt.Fprintln(hc.Stdout, strings.Join(names, "  "))
	return nil
}

// printLong prints one line per entry: type, size, modification time, name.
func (c *lsCommand) printLong(ctx context.Context, hc *HandlerContext, dir string, entries []vfs.Entry) error {
	for _, e := range entries {
		child := e.Name
		if dir != "" {
			child = dir + "/" + e.Name
		}
		node, err := hc.FS.Stat(ctx, child)
		if err != nil {
			return fmt.Errorf("%s: cannot access '%s': %s", c.name, child, reason(err))
		}
		writeLongEntry(hc.Stdout, node)
	}
	return nil
}

func writeLongEntry(w io.Writer, node vfs.Node) {
	kind, size := "-", humanize.Bytes(uint64(node.Size()))
	if node.IsDir() {
		kind, size = "d", "-"
	}
	fmt.Fprintf(w, "%s %8s  %s  %s\n",
		kind, size, node.ModifiedAt.Local().Format(lsTimeLayout),
		displayName(vfs.Entry{Name: node.Name, Kind: node.Kind}))
}

// displayName suffixes directories with "/".
func displayName(e vfs.Entry) string {
	if e.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}
