// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tasnuva/tos/internal/config"
	"github.com/tasnuva/tos/internal/issue"
	"github.com/tasnuva/tos/internal/vfs"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration and storage through it.
	App struct {
		Config config.Provider

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		baseOptions config.LoadOptions
		flags       globalFlags

		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// ConfigOptions are merged under the --config and --env-file flags.
		ConfigOptions config.LoadOptions
	}

	globalFlags struct {
		configFile string
		envFile    string
		dbPath     string
		logLevel   string
		verbose    bool
	}
)

// NewApp builds an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:      deps.Config,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		baseOptions: deps.ConfigOptions,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadOptions merges the global flags over the injected options.
func (a *App) loadOptions() config.LoadOptions {
	opts := a.baseOptions
	if a.flags.configFile != "" {
		opts.ConfigFilePath = a.flags.configFile
	}
	if a.flags.envFile != "" {
		opts.EnvFile = a.flags.envFile
		opts.SkipEnvFile = false
	}
	return opts
}

// init loads the configuration, applies flag overrides and installs the
// logger. It runs before every command.
func (a *App) init(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return withIssue(err, issue.ConfigLoadFailedId)
	}

	if a.flags.dbPath != "" {
		cfg.Database.Path = a.flags.dbPath
	}
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = config.LogLevel(a.flags.logLevel)
		if ok, errs := cfg.Log.Level.IsValid(); !ok {
			return errs[0]
		}
	}
	a.cfg = cfg

	level, err := log.ParseLevel(string(cfg.Log.Level))
	if err != nil {
		return err
	}
	if cfg.UI.Verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	slog.SetDefault(slog.New(a.logger))
	return nil
}

// openStore opens the configured database, creating its directory.
func (a *App) openStore(ctx context.Context) (*vfs.Store, error) {
	path, err := a.cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	if path != vfs.MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, withIssue(issue.WrapWithContext(err, "create database directory", filepath.Dir(path)), issue.DatabaseOpenFailedId)
		}
	}

	a.logger.Debug("opening filesystem database", "path", path)
	store, err := vfs.Open(ctx, path)
	if err != nil {
		return nil, withIssue(
			issue.NewErrorContext().
				WithOperation("open filesystem database").
				WithResource(path).
				WithSuggestion("Pass --db to use another file, or --db :memory: for a throwaway filesystem").
				Wrap(err).
				BuildError(),
			issue.DatabaseOpenFailedId)
	}
	return store, nil
}

// closeStore closes store and logs a failure.
func (a *App) closeStore(store *vfs.Store) {
	if err := store.Close(); err != nil {
		a.logger.Warn("failed to close filesystem database", "error", err)
	}
}

// markdownStyle picks a glamour style for w: the configured scheme on a
// terminal, plain text otherwise.
func (a *App) markdownStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if a.cfg != nil && a.cfg.UI.ColorScheme != config.ColorSchemeAuto {
			return a.cfg.UI.ColorScheme.String()
		}
		return "dark"
	}
	return "notty"
}

func (a *App) verbose() bool {
	return a.flags.verbose || (a.cfg != nil && a.cfg.UI.Verbose)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}
