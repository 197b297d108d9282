// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/tasnuva/tos/internal/issue"

	"github.com/spf13/cobra"
)

var errResetNotConfirmed = errors.New("reset needs --confirm")

func newResetCommand(app *App) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the initial filesystem",
		Long: `Delete every file and directory and restore the initial tree
(/home, /tmp, /usr, /var and /welcome.txt).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return withIssue(errResetNotConfirmed, issue.ResetNotConfirmedId)
			}

			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer app.closeStore(store)

			if err := store.Reset(cmd.Context()); err != nil {
				return issue.WrapWithContext(err, "reset filesystem", "")
			}
			app.printf("%s Filesystem reset to its initial state.\n", SuccessStyle.Render("✓"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm deleting all data")
	return cmd
}
