// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/tasnuva/tos/internal/shell"
	"github.com/tasnuva/tos/internal/vfs"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShellCommand(app *App) *cobra.Command {
	var noBanner bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app, noBanner)
		},
	}
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "skip the banner and boot messages")
	return cmd
}

// runShell boots the system and runs the shell on the app's stdin until
// exit, end of input or ctx cancellation.
func runShell(ctx context.Context, app *App, noBanner bool) error {
	showBanner := app.cfg.Shell.Banner && !noBanner
	if showBanner {
		fmt.Fprint(app.stdout, banner())
	}

	var store *vfs.Store
	mount := func() error {
		s, err := app.openStore(ctx)
		store = s
		return err
	}
	var err error
	if showBanner {
		err = printBoot(app.stdout, mount)
	} else {
		err = mount()
	}
	if err != nil {
		return err
	}
	defer app.closeStore(store)

	session := vfs.NewSession(store)
	opts := []shell.Option{
		shell.WithPromptName(app.cfg.Shell.Prompt),
		shell.WithUser(app.cfg.Shell.User),
	}

	var (
		sh  *shell.Shell
		in  shell.LineReader
		out io.Writer = app.stdout
	)
	if f, ok := app.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		restore, tr, err := rawTerminal(f, app.stdout)
		if err != nil {
			return err
		}
		defer restore()
		sh = shell.New(session, tr, opts...)
		in, out = tr, tr
	} else {
		sh = shell.New(session, app.stdout, append(opts, shell.WithStderr(app.stderr))...)
		in = shell.NewStreamReader(app.stdin, app.stdout)
		stop := notifyInterrupt(sh)
		defer stop()
	}

	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx, in) }()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msgShutdownComplete)
		return nil
	case <-ctx.Done():
		fmt.Fprintf(out, "\n\n%s\n%s\n", msgShutdownRequested, msgShutdownComplete)
		return nil
	}
}

// rawTerminal puts f into raw mode and returns a line editor writing to out.
func rawTerminal(f *os.File, out io.Writer) (func(), *shell.TerminalReader, error) {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	tr := shell.NewTerminalReader(struct {
		io.Reader
		io.Writer
	}{f, out})
	if w, h, err := term.GetSize(fd); err == nil {
		_ = tr.SetSize(w, h) // Nothing drawn yet
	}
	return func() { _ = term.Restore(fd, state) }, tr, nil
}

// notifyInterrupt answers Ctrl-C on a non-terminal stdin with the shell's
// hint instead of killing the process.
func notifyInterrupt(sh *shell.Shell) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				sh.Interrupt()
			case <-quit:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(quit)
	}
}
