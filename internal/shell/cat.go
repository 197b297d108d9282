// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tasnuva/tos/internal/vfs"
)

// catCommand prints file contents.
type catCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&catCommand{baseCommand{name: "cat", description: "Display file contents"}})
}

// Run executes the cat command. Trailing whitespace of each file is dropped
// and replaced by a single newline; empty files print nothing.
func (c *catCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	if len(args) < 2 {
		return fmt.Errorf("%s: missing file operand", c.name)
	}

	for _, path := range args[1:] {
		content, err := hc.FS.ReadFile(ctx, path)
		if err != nil {
			if errors.Is(err, vfs.ErrNotFound) {
				return fmt.Errorf("%s: %s: No such file", c.name, path)
			}
			return fmt.Errorf("%s: %s: %w", c.name, path, err)
		}
		if trimmed := strings.TrimRightFunc(content, unicode.IsSpace); trimmed != "" {
			fmt.Fprintln(hc.Stdout, trimmed)
		}
	}
	return nil
}
