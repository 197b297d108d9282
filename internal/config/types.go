// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidSSHConfig is returned for an unusable ssh section.
	ErrInvalidSSHConfig = errors.New("invalid ssh config")
	// ErrInvalidShellConfig is returned for an unusable shell section.
	ErrInvalidShellConfig = errors.New("invalid shell config")
	// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette used by lipgloss and glamour.
	ColorScheme string

	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// Config is the complete tos configuration.
	Config struct {
		Database DatabaseConfig `json:"database" mapstructure:"database"`
		Shell    ShellConfig    `json:"shell" mapstructure:"shell"`
		UI       UIConfig       `json:"ui" mapstructure:"ui"`
		Log      LogConfig      `json:"log" mapstructure:"log"`
		SSH      SSHConfig      `json:"ssh" mapstructure:"ssh"`
	}

	// DatabaseConfig locates the filesystem database.
	DatabaseConfig struct {
		// Path is the SQLite file. Empty selects tos.db in DataDir.
		Path string `json:"path" mapstructure:"path"`
	}

	// ShellConfig controls the interactive shell.
	ShellConfig struct {
		// Prompt is the name shown before the working directory.
		Prompt string `json:"prompt" mapstructure:"prompt"`
		// User is exported to the shell as $USER.
		User string `json:"user" mapstructure:"user"`
		// Banner prints the boot banner when the shell starts.
		Banner bool `json:"banner" mapstructure:"banner"`
	}

	// UIConfig controls rendering of CLI output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose prints error chains for failed CLI commands.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// LogConfig controls the structured logger.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// SSHConfig controls `tos serve`.
	SSHConfig struct {
		Host        string `json:"host" mapstructure:"host"`
		Port        int    `json:"port" mapstructure:"port"`
		HostKeyPath string `json:"host_key_path" mapstructure:"host_key_path"`
		Password    string `json:"password,omitempty" mapstructure:"password"`
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// String returns the scheme name.
func (c ColorScheme) String() string { return string(c) }

// IsValid reports whether the scheme is known.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q (valid: auto, dark, light)", ErrInvalidColorScheme, string(c))}
	}
}

// String returns the level name.
func (l LogLevel) String() string { return string(l) }

// IsValid reports whether the level is known.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q (valid: debug, info, warn, error)", ErrInvalidLogLevel, string(l))}
	}
}

// IsValid checks the prompt and user.
func (s ShellConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(s.Prompt) == "" {
		errs = append(errs, fmt.Errorf("%w: prompt must not be empty", ErrInvalidShellConfig))
	}
	if strings.TrimSpace(s.User) == "" || strings.ContainsAny(s.User, " \t/:") {
		errs = append(errs, fmt.Errorf("%w: invalid user %q", ErrInvalidShellConfig, s.User))
	}
	return len(errs) == 0, errs
}

// IsValid checks the listen port.
func (s SSHConfig) IsValid() (bool, []error) {
	if s.Port < 1 || s.Port > 65535 {
		return false, []error{fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidSSHConfig, s.Port)}
	}
	return true, nil
}

// Addr returns host:port for the listener.
func (s SSHConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsValid validates every section. Values that bypass the CUE schema, such
// as environment overrides, are caught here.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.Shell.IsValid,
		c.UI.ColorScheme.IsValid,
		c.Log.Level.IsValid,
		c.SSH.IsValid,
	} {
		if ok, fieldErrs := check(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and each field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
