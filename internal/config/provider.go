// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects the sources Load layers over the defaults.
	LoadOptions struct {
		// ConfigFilePath names the CUE file. It must exist when set.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir when searching for config.cue.
		ConfigDirPath string
		// EnvFile is the dotenv file. Empty means DefaultEnvFile.
		EnvFile string
		// SkipEnvFile ignores dotenv files altogether.
		SkipEnvFile bool
	}

	// Provider produces a validated Config. The CLI receives one through
	// its dependencies so tests can hand it a fixed configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// ProviderFunc adapts a function to Provider.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, error)
)

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return f(ctx, opts)
}

// NewProvider returns the Provider that reads files and the environment.
func NewProvider() Provider {
	return ProviderFunc(func(ctx context.Context, opts LoadOptions) (*Config, error) {
		cfg, _, err := loadWithOptions(ctx, opts)
		return cfg, err
	})
}

// Static returns a Provider that always yields a copy of cfg.
func Static(cfg Config) Provider {
	return ProviderFunc(func(ctx context.Context, _ LoadOptions) (*Config, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := cfg
		return &c, nil
	})
}

func (o LoadOptions) envFile() string {
	if o.SkipEnvFile {
		return ""
	}
	if o.EnvFile != "" {
		return o.EnvFile
	}
	return DefaultEnvFile
}
