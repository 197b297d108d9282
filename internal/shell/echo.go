// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"strings"
)

// echoCommand prints its arguments.
type echoCommand struct {
	baseCommand
}

func init() {
	RegisterDefault(&echoCommand{baseCommand{name: "echo", description: "Display text"}})
}

// Run executes the echo command. Without arguments nothing is printed.
func (c *echoCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	if len(args) < 2 {
		return nil
	}
	fmt.Fprintln(hc.Stdout, strings.Join(args[1:], " "))
	return nil
}
