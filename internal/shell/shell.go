// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
)

const (
	// DefaultPromptName is printed before the current directory in the prompt.
	DefaultPromptName = "Tasnuva TOS"
	// DefaultUser is the value of $USER inside the shell.
	DefaultUser = "guest"
	// InterruptHint is printed when the user presses Ctrl-C at the prompt.
	InterruptHint = "Use 'exit' to quit Tasnuva TOS"

	exitCommand = "exit"
	homeDir     = "/home"
)

var (
	// ErrExit is returned by Execute when a line asks to leave the shell.
	ErrExit = errors.New("exit requested")
	// ErrCommandFailed is returned by Execute when at least one statement
	// reported an error. The message has already been written to stderr.
	ErrCommandFailed = errors.New("command failed")
)

type (
	// Shell runs command lines against one FileSystem.
	// A Shell is not safe for concurrent use, except for Interrupt.
	Shell struct {
		fs       FileSystem
		registry *Registry
		stdout   io.Writer
		stderr   io.Writer
		name     string
		user     string

		mu         sync.Mutex // serializes every write to stdout and stderr
		lastPrompt string
	}

	// Option configures a Shell.
	Option func(*Shell)

	// panicError reports a command that panicked instead of returning.
	panicError struct {
		command string
		value   any
	}
)

func (e *panicError) Error() string {
	return fmt.Sprintf("Error executing %s: %v", e.command, e.value)
}

// WithRegistry replaces DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(s *Shell) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithStderr sends error messages to w instead of stdout.
func WithStderr(w io.Writer) Option {
	return func(s *Shell) {
		if w != nil {
			s.stderr = w
		}
	}
}

// WithPromptName changes the text before the current directory in the prompt.
func WithPromptName(name string) Option {
	return func(s *Shell) {
		if name != "" {
			s.name = name
		}
	}
}

// WithUser sets $USER.
func WithUser(user string) Option {
	return func(s *Shell) {
		if user != "" {
			s.user = user
		}
	}
}

// New creates a shell writing command output to stdout.
func New(fs FileSystem, stdout io.Writer, opts ...Option) *Shell {
	s := &Shell{
		fs:       fs,
		registry: DefaultRegistry,
		stdout:   stdout,
		stderr:   stdout,
		name:     DefaultPromptName,
		user:     DefaultUser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commands returns the registered commands sorted by name.
func (s *Shell) Commands() []Command {
	return s.registry.Commands()
}

// Prompt renders the prompt for the current directory.
func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s:%s$ ", s.name, s.fs.CurrentDirectory())
}

// Run reads lines from in and executes them until exit, end of input, or
// ctx is cancelled. An interrupted read prints InterruptHint and continues.
func (s *Shell) Run(ctx context.Context, in LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		prompt := s.Prompt()
		s.mu.Lock()
		s.lastPrompt = prompt
		s.mu.Unlock()

		line, err := in.ReadLine(prompt)
		switch {
		case errors.Is(err, ErrInterrupted):
			s.printf(s.stdout, "\n%s\n", InterruptHint)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read command: %w", err)
		}

		if err := s.Execute(ctx, line); errors.Is(err, ErrExit) {
			return nil
		}
	}
}

// Interrupt prints InterruptHint and the last prompt. It is meant to be
// called from a signal handler while Run is blocked reading a line.
func (s *Shell) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.stdout, "\n%s\n%s", InterruptHint, s.lastPrompt)
}

// Execute runs every statement of line in order. Errors are written to
// stderr and do not stop the remaining statements. It returns ErrExit when a
// statement is "exit", and an error wrapping ErrCommandFailed when any
// statement failed.
func (s *Shell) Execute(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	stmts, err := parseLine(line)
	if err != nil {
		s.printf(s.stderr, "Error parsing command: %v\n", err)
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	var failed error
	for _, st := range stmts {
		inv, err := expandStmt(st, s.environ())
		if err != nil {
			s.printf(s.stderr, "Error parsing command: %v\n", err)
			failed = fmt.Errorf("%w: %w", ErrCommandFailed, err)
			continue
		}

		name := strings.ToLower(inv.args[0])
		if name == exitCommand {
			return ErrExit
		}
		if err := s.dispatch(ctx, name, inv); err != nil {
			failed = err
		}
	}
	return failed
}

// environ is the variable set visible to expansion.
func (s *Shell) environ() expand.Environ {
	return expand.ListEnviron(
		"HOME="+homeDir,
		"PWD="+s.fs.CurrentDirectory(),
		"USER="+s.user,
	)
}

// dispatch runs one command and applies its redirection.
func (s *Shell) dispatch(ctx context.Context, name string, inv invocation) error {
	cmd, ok := s.registry.Lookup(name)
	if !ok {
		s.printf(s.stderr, "%s: command not found\n", name)
		return fmt.Errorf("%s: %w", name, ErrCommandFailed)
	}

	var (
		out      io.Writer = lockedWriter{mu: &s.mu, w: s.stdout}
		captured strings.Builder
	)
	if inv.redirect != nil {
		out = &captured
	}

	hc := &HandlerContext{Stdout: out, Stderr: lockedWriter{mu: &s.mu, w: s.stderr}, FS: s.fs, Core: s}
	args := append([]string{name}, inv.args[1:]...)

	runErr := s.run(WithHandlerContext(ctx, hc), cmd, args)
	if runErr != nil {
		s.printf(s.stderr, "%v\n", runErr)
	}

	if rd := inv.redirect; rd != nil {
		if err := s.fs.WriteFile(ctx, rd.target, captured.String(), rd.append); err != nil {
			slog.Debug("redirection failed", "command", name, "target", rd.target, "error", err)
			s.printf(s.stderr, "%s: cannot write to %s\n", name, rd.target)
			runErr = errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("%s: %w", name, ErrCommandFailed)
	}
	return nil
}

// run calls cmd and turns a panic into a *panicError.
func (s *Shell) run(ctx context.Context, cmd Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command panicked", "command", args[0], "panic", r)
			err = &panicError{command: args[0], value: r}
		}
	}()
	return cmd.Run(ctx, args)
}

// lockedWriter serializes command output with Interrupt, which writes from
// a signal goroutine.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (s *Shell) printf(w io.Writer, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(w, format, args...)
}
