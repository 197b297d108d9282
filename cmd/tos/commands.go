// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/tasnuva/tos/internal/shell"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newCommandsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands available inside the shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := glamour.Render(commandsMarkdown(shell.DefaultRegistry), app.markdownStyle(app.stdout))
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
}

// commandsMarkdown renders the registry as a Markdown table.
func commandsMarkdown(r *shell.Registry) string {
	var b strings.Builder
	b.WriteString("# Shell commands\n\n")
	b.WriteString("| Command | Description | Flags |\n")
	b.WriteString("|---|---|---|\n")
	for _, c := range r.Commands() {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", c.Name(), c.Description(), flagSummary(c.SupportedFlags()))
	}
	b.WriteString("| `exit` | Exit Tasnuva TOS | |\n")
	b.WriteString("\nOutput of any command can be redirected with `>` or `>>`.\n")
	return b.String()
}

func flagSummary(flags []shell.FlagInfo) string {
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		name := "`--" + f.Name + "`"
		if f.ShortName != "" {
			name = "`-" + f.ShortName + "`, " + name
		}
		parts = append(parts, name+" "+f.Description)
	}
	return strings.Join(parts, "; ")
}
