// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tasnuva/tos/internal/issue"
	"github.com/tasnuva/tos/pkg/cueutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName names the config and data directories.
	AppName = "tos"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TOS"
	// DatabaseFileName is the default database inside DataDir.
	DatabaseFileName = "tos.db"
	// DefaultEnvFile is read from the working directory when present.
	DefaultEnvFile = ".env"

	windows = "windows"
	darwin  = "darwin"
)

//go:embed config_schema.cue
var configSchema string

// Schema returns the embedded CUE schema.
func Schema() string { return configSchema }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{
			Prompt: "Tasnuva TOS",
			User:   "guest",
			Banner: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
		SSH: SSHConfig{
			Host:        "localhost",
			Port:        2222,
			HostKeyPath: filepath.Join(".ssh", "tos_ed25519"),
		},
	}
}

// ConfigDir returns the tos configuration directory: %APPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME (default
// ~/.config) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := userDir("APPDATA", "XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// DataDir returns the directory of the default database: %LOCALAPPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_DATA_HOME
// (default ~/.local/share) elsewhere.
func DataDir() (string, error) {
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}
	base, err := userDir("LOCALAPPDATA", "XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

func userDir(windowsEnv, xdgEnv, xdgFallback string) (string, error) {
	switch runtime.GOOS {
	case windows:
		if dir := os.Getenv(windowsEnv); dir != "" {
			return dir, nil
		}
	case darwin:
	default:
		if dir := os.Getenv(xdgEnv); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	switch runtime.GOOS {
	case windows:
		return filepath.Join(home, "AppData", "Roaming"), nil
	case darwin:
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		return filepath.Join(home, xdgFallback), nil
	}
}

// DatabasePath returns the configured database, or tos.db in DataDir.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFileName), nil
}

// ConfigFilePath returns the path of config.cue inside dir.
func ConfigFilePath(dir string) string {
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
}

// Locate returns the config file Load would read, or "" when none exists.
func Locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'tos config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	for _, candidate := range []string{ConfigFilePath(cfgDir), ConfigFilePath("")} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadWithOptions layers defaults, the CUE file, the .env file and the
// environment, in that order, and validates the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare the file with 'tos config dump'").
				Wrap(err).
				BuildError()
		}
	}

	if err := loadEnvFile(v, opts.envFile()); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load environment file").
			WithResource(opts.envFile()).
			WithSuggestion("Each line must look like TOS_KEY=value").
			Wrap(err).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check TOS_* environment variables and the .env file").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("shell.prompt", d.Shell.Prompt)
	v.SetDefault("shell.user", d.Shell.User)
	v.SetDefault("shell.banner", d.Shell.Banner)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("log.level", string(d.Log.Level))
	v.SetDefault("ssh.host", d.SSH.Host)
	v.SetDefault("ssh.port", d.SSH.Port)
	v.SetDefault("ssh.host_key_path", d.SSH.HostKeyPath)
	v.SetDefault("ssh.password", d.SSH.Password)
}

// loadCUEIntoViper validates the file against #Config and merges it over
// the defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// loadEnvFile applies TOS_* entries of a dotenv file. Variables already set
// in the process environment win. A missing file is ignored.
func loadEnvFile(v *viper.Viper, path string) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	entries, err := godotenv.Read(path)
	if err != nil {
		return err
	}
	for _, key := range v.AllKeys() {
		name := envName(key)
		value, ok := entries[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, value)
	}
	return nil
}

// envName maps a config key such as "ssh.host_key_path" to its variable
// TOS_SSH_HOST_KEY_PATH.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config.cue into dir (ConfigDir
// when empty) unless one exists. It returns the path and whether a file
// was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", false, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := ConfigFilePath(dir)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Tasnuva TOS configuration file\n")
	sb.WriteString("// Environment variables TOS_<SECTION>_<KEY> override these values.\n\n")

	fmt.Fprintf(&sb, "database: {\n\tpath: %q\n}\n", cfg.Database.Path)

	sb.WriteString("\nshell: {\n")
	fmt.Fprintf(&sb, "\tprompt: %q\n", cfg.Shell.Prompt)
	fmt.Fprintf(&sb, "\tuser:   %q\n", cfg.Shell.User)
	fmt.Fprintf(&sb, "\tbanner: %v\n", cfg.Shell.Banner)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nlog: {\n\tlevel: %q\n}\n", cfg.Log.Level)

	sb.WriteString("\nssh: {\n")
	fmt.Fprintf(&sb, "\thost:          %q\n", cfg.SSH.Host)
	fmt.Fprintf(&sb, "\tport:          %d\n", cfg.SSH.Port)
	fmt.Fprintf(&sb, "\thost_key_path: %q\n", cfg.SSH.HostKeyPath)
	if cfg.SSH.Password != "" {
		fmt.Fprintf(&sb, "\tpassword:      %q\n", cfg.SSH.Password)
	}
	sb.WriteString("}\n")

	return sb.String()
}
