// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/tasnuva/tos/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the tos command tree around app. Running it without
// a subcommand starts the interactive shell.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tos",
		Short: "Tasnuva TOS, a terminal operating system with a virtual filesystem",
		Long: TitleStyle.Render("Tasnuva TOS") + SubtitleStyle.Render(" - a simulated terminal operating system") + `

tos boots a small shell (ls, cd, pwd, cat, echo, mkdir, touch, rm, help,
reset) over a virtual filesystem kept in a SQLite database. Nothing on the
host filesystem is touched except that database.

` + SubtitleStyle.Render("Examples:") + `
  tos                          Start the interactive shell
  tos exec 'mkdir /x' 'ls /'   Run command lines and exit
  tos fs export -o fs.yaml     Back up the filesystem
  tos serve --port 2222        Share the filesystem over SSH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app, false)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is <config dir>/tos/config.cue)")
	flags.StringVar(&app.flags.envFile, "env-file", "", "dotenv file with TOS_* overrides (default .env)")
	flags.StringVar(&app.flags.dbPath, "db", "", "filesystem database, or :memory:")
	flags.StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newShellCommand(app),
		newExecCommand(app),
		newResetCommand(app),
		newFSCommand(app),
		newServeCommand(app),
		newCommandsCommand(app),
		newConfigCommand(app),
	)
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process on failure. Called by main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		// Ctrl-C belongs to the shell, which answers it with a hint.
		fang.WithNotifySignal(syscall.SIGTERM),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints a failed command's error. Actionable errors show their
// suggestions, guided errors add their issue guide.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
	} else {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.verbose()))
	}

	var guided *guidedError
	if errors.As(err, &guided) {
		guided.renderIssue(w, a.markdownStyle(w))
	}
}
