// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/tasnuva/tos/internal/shell"
	"github.com/tasnuva/tos/internal/vfs"

	"github.com/spf13/cobra"
)

func newExecCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "exec [line...]",
		Short: "Run command lines without the interactive shell",
		Long: `Run each argument as one shell line, in order. Without arguments, lines
are read from standard input. The exit status is 1 when any command
reported an error.`,
		Example: `  tos exec 'mkdir -p /home/me/notes' 'echo hi > /home/me/notes/a.txt'
  printf 'cd /tmp\nls\n' | tos exec`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), app, args)
		},
	}
}

func runExec(ctx context.Context, app *App, lines []string) error {
	store, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer app.closeStore(store)

	sh := shell.New(vfs.NewSession(store), app.stdout,
		shell.WithStderr(app.stderr),
		shell.WithPromptName(app.cfg.Shell.Prompt),
		shell.WithUser(app.cfg.Shell.User),
	)

	next := func() (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
	if len(lines) == 0 {
		in := shell.NewStreamReader(app.stdin, nil)
		next = func() (string, error) { return in.ReadLine("") }
	}

	failed := false
	for {
		line, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		err = sh.Execute(ctx, line)
		if errors.Is(err, shell.ErrExit) {
			break
		}
		if err != nil {
			failed = true
		}
	}

	if failed {
		return &ExitError{Code: 1}
	}
	return nil
}
