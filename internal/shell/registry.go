// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// DefaultRegistry holds the built-in commands. Each command file adds
// itself from init.
var DefaultRegistry = NewRegistry()

// Registry is the command table consulted by the dispatcher. It is safe for
// concurrent use, so SSH sessions can share one.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry returns an empty table.
func NewRegistry() *Registry {
	return &Registry{commands: map[string]Command{}}
}

// Register adds cmd. A blank, reserved or duplicate name is a programming
// error and panics.
func (r *Registry) Register(cmd Command) {
	name := cmd.Name()
	switch {
	case strings.TrimSpace(name) == "":
		panic("shell: command registered without a name")
	case name == exitCommand:
		panic(fmt.Sprintf("shell: %q is handled by the shell itself", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.commands[name]; dup {
		panic(fmt.Sprintf("shell: duplicate command %q", name))
	}
	r.commands[name] = cmd
}

// Lookup finds the command called name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names lists the command names alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.commands))
}

// Commands lists the commands ordered by name, the order help prints them in.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmds := slices.Collect(maps.Values(r.commands))
	slices.SortFunc(cmds, func(a, b Command) int { return strings.Compare(a.Name(), b.Name()) })
	return cmds
}

// RegisterDefault adds cmd to DefaultRegistry.
func RegisterDefault(cmd Command) {
	DefaultRegistry.Register(cmd)
}
