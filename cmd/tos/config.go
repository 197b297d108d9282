// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/tasnuva/tos/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `tos config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tos configuration",
		Long: `Manage tos configuration.

Configuration is stored in:
  - Linux: ~/.config/tos/config.cue
  - macOS: ~/Library/Application Support/tos/config.cue
  - Windows: %APPDATA%\tos\config.cue

Any key can be overridden with an environment variable named after it,
for example TOS_SSH_PORT=2200 or TOS_DATABASE_PATH=/tmp/tos.db.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return showConfig(app)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration and data locations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return showConfigPath(app)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create the default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				path, created, err := config.CreateDefaultConfig(app.baseOptions.ConfigDirPath)
				if err != nil {
					return err
				}
				if !created {
					app.printf("%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
					return nil
				}
				app.printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Print the effective configuration as CUE",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
				return nil
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Print the CUE schema of the configuration file",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fmt.Fprint(app.stdout, config.Schema())
				return nil
			},
		},
	)
	return cfgCmd
}

func showConfig(app *App) error {
	cfg := app.cfg
	path, err := config.Locate(app.loadOptions())
	if err != nil {
		return err
	}
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}

	app.printf("%s\n\n", TitleStyle.Render("Current Configuration"))
	if path == "" {
		app.printf("%s: %s\n\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		app.printf("%s: %s\n\n", CmdStyle.Render("Config file"), path)
	}

	section := func(name string, kv ...string) {
		app.printf("%s:\n", CmdStyle.Render(name))
		for i := 0; i+1 < len(kv); i += 2 {
			app.printf("  %s: %s\n", kv[i], SuccessStyle.Render(kv[i+1]))
		}
	}
	section("database", "path", dbPath)
	section("shell", "prompt", cfg.Shell.Prompt, "user", cfg.Shell.User, "banner", fmt.Sprint(cfg.Shell.Banner))
	section("ui", "color_scheme", cfg.UI.ColorScheme.String(), "verbose", fmt.Sprint(cfg.UI.Verbose))
	section("log", "level", cfg.Log.Level.String())
	password := "(generated at startup)"
	if cfg.SSH.Password != "" {
		password = "(set)"
	}
	section("ssh", "address", cfg.SSH.Addr(), "host_key_path", cfg.SSH.HostKeyPath, "password", password)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir := app.baseOptions.ConfigDirPath
	if cfgDir == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		cfgDir = dir
	}
	dbPath, err := app.cfg.DatabasePath()
	if err != nil {
		return err
	}

	app.printf("Config directory: %s\n", cfgDir)
	app.printf("Config file: %s\n", config.ConfigFilePath(cfgDir))
	app.printf("Database: %s\n", dbPath)
	return nil
}
