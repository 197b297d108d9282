// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"

	"github.com/tasnuva/tos/internal/vfs"
)

type (
	// Command defines the interface for built-in shell commands.
	Command interface {
		// Name returns the command name (e.g., "ls", "cat").
		Name() string

		// Description is the one-line summary shown by help.
		Description() string

		// Run executes the command. The context carries the HandlerContext.
		// args[0] is the command name, args[1:] are the arguments.
		// A returned error is a complete, user-facing message.
		Run(ctx context.Context, args []string) error

		// SupportedFlags returns the flags this command accepts.
		// This is used for documentation and introspection.
		SupportedFlags() []FlagInfo
	}

	// FlagInfo describes a supported flag of a command.
	FlagInfo struct {
		// Name is the flag name without dashes (e.g., "confirm" for --confirm).
		Name string
		// ShortName is the single-character alias. Empty if no short form exists.
		ShortName string
		// Description explains what the flag does.
		Description string
	}

	// FileSystem is the view of the virtual filesystem available to commands.
	// Every path argument is a raw user string resolved against the current
	// directory. *vfs.Session implements it.
	FileSystem interface {
		CurrentDirectory() string
		ChangeDirectory(ctx context.Context, path string) error
		Exists(ctx context.Context, path string) (bool, error)
		IsDirectory(ctx context.Context, path string) (bool, error)
		Stat(ctx context.Context, path string) (vfs.Node, error)
		ListDirectory(ctx context.Context, path string) ([]vfs.Entry, error)
		ReadFile(ctx context.Context, path string) (string, error)
		WriteFile(ctx context.Context, path, content string, appendContent bool) error
		CreateDirectory(ctx context.Context, path string) error
		CreateDirectoryAll(ctx context.Context, path string) error
		Remove(ctx context.Context, path string) error
		Reset(ctx context.Context) error
	}

	// Core exposes the running shell to commands that describe it.
	Core interface {
		// Commands returns the registered commands sorted by name.
		Commands() []Command
	}

	// baseCommand provides the descriptive half of Command.
	baseCommand struct {
		name        string
		description string
		flags       []FlagInfo
	}
)

var _ FileSystem = (*vfs.Session)(nil)

// Name returns the command name.
func (c *baseCommand) Name() string {
	return c.name
}

// Description returns the help text.
func (c *baseCommand) Description() string {
	return c.description
}

// SupportedFlags returns the flags supported by this command.
func (c *baseCommand) SupportedFlags() []FlagInfo {
	return c.flags
}
