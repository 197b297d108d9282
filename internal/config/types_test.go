// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme ColorScheme
		want   bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"DARK", false},
		{"solarized", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.scheme.IsValid()
			if ok != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, ok, tt.want)
			}
			if !tt.want && (len(errs) == 0 || !errors.Is(errs[0], ErrInvalidColorScheme)) {
				t.Errorf("errors should wrap ErrInvalidColorScheme, got %v", errs)
			}
		})
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if ok, errs := l.IsValid(); !ok {
			t.Errorf("LogLevel(%q).IsValid() = false: %v", l, errs)
		}
	}
	ok, errs := LogLevel("trace").IsValid()
	if ok || !errors.Is(errs[0], ErrInvalidLogLevel) {
		t.Errorf("trace should be invalid, got %v %v", ok, errs)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := DefaultConfig().IsValid(); !ok {
		t.Fatalf("default config invalid: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.SSH.Port = 0
	cfg.Shell.Prompt = "  "
	cfg.Log.Level = "loud"

	ok, errs := cfg.IsValid()
	if ok {
		t.Fatal("expected invalid config")
	}
	err := errs[0]
	for _, sentinel := range []error{ErrInvalidConfig, ErrInvalidSSHConfig, ErrInvalidShellConfig, ErrInvalidLogLevel} {
		if !errors.Is(err, sentinel) {
			t.Errorf("error should wrap %v: %v", sentinel, err)
		}
	}
	if errors.Is(err, ErrInvalidColorScheme) {
		t.Error("color scheme was valid")
	}

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) || len(invalid.FieldErrors) != 3 {
		t.Errorf("want 3 field errors, got %v", invalid)
	}
}

func TestShellConfig_IsValid_User(t *testing.T) {
	t.Parallel()

	for _, user := range []string{"", "a b", "root/x"} {
		s := ShellConfig{Prompt: "p", User: user}
		if ok, _ := s.IsValid(); ok {
			t.Errorf("user %q should be invalid", user)
		}
	}
}

func TestSSHConfig_Addr(t *testing.T) {
	t.Parallel()

	if got := (SSHConfig{Host: "0.0.0.0", Port: 2022}).Addr(); got != "0.0.0.0:2022" {
		t.Errorf("Addr() = %q", got)
	}
}
