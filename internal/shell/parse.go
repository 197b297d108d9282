// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ErrUnsupportedSyntax is returned for valid shell syntax the shell does not run.
var ErrUnsupportedSyntax = errors.New("unsupported syntax")

type (
	// invocation is one expanded simple command.
	invocation struct {
		args     []string
		redirect *redirect
	}

	// redirect sends the standard output of a command to a virtual file.
	redirect struct {
		target string
		append bool
	}
)

// parseLine splits line into statements without expanding them. Expansion
// is deferred because $PWD depends on the commands run before.
func parseLine(line string) ([]*syntax.Stmt, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, err
	}
	for _, st := range file.Stmts {
		if err := checkStmt(st); err != nil {
			return nil, err
		}
	}
	return file.Stmts, nil
}

// checkStmt accepts only simple commands with at most one stdout redirection.
func checkStmt(st *syntax.Stmt) error {
	if st.Background || st.Coprocess {
		return fmt.Errorf("%w: background jobs are not supported", ErrUnsupportedSyntax)
	}
	if st.Negated {
		return fmt.Errorf("%w: '!' is not supported", ErrUnsupportedSyntax)
	}

	switch cmd := st.Cmd.(type) {
	case *syntax.CallExpr:
		if len(cmd.Assigns) > 0 {
			return fmt.Errorf("%w: variable assignments are not supported", ErrUnsupportedSyntax)
		}
		if len(cmd.Args) == 0 {
			return fmt.Errorf("%w: missing command", ErrUnsupportedSyntax)
		}
	case *syntax.BinaryCmd:
		return fmt.Errorf("%w: pipelines and '&&'/'||' lists are not supported", ErrUnsupportedSyntax)
	case *syntax.Subshell, *syntax.Block:
		return fmt.Errorf("%w: subshells and blocks are not supported", ErrUnsupportedSyntax)
	case nil:
		return fmt.Errorf("%w: missing command", ErrUnsupportedSyntax)
	default:
		return fmt.Errorf("%w: only simple commands are supported", ErrUnsupportedSyntax)
	}

	var subst error
	syntax.Walk(st, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.CmdSubst:
			subst = fmt.Errorf("%w: command substitution is not supported", ErrUnsupportedSyntax)
		case *syntax.ProcSubst:
			subst = fmt.Errorf("%w: process substitution is not supported", ErrUnsupportedSyntax)
		}
		return subst == nil
	})
	if subst != nil {
		return subst
	}

	if len(st.Redirs) > 1 {
		return fmt.Errorf("%w: only one redirection per command", ErrUnsupportedSyntax)
	}
	for _, rd := range st.Redirs {
		if rd.N != nil && rd.N.Value != "1" {
			return fmt.Errorf("%w: only standard output can be redirected", ErrUnsupportedSyntax)
		}
		if rd.Op != syntax.RdrOut && rd.Op != syntax.AppOut {
			return fmt.Errorf("%w: only '>' and '>>' redirections are supported", ErrUnsupportedSyntax)
		}
	}
	return nil
}

// expandStmt expands the words of a checked statement. Globs are kept
// literally and unset variables expand to nothing. A panic inside the
// expander is returned as an error so that one line cannot end the session.
func expandStmt(st *syntax.Stmt, env expand.Environ) (inv invocation, err error) {
	defer func() {
		if r := recover(); r != nil {
			inv, err = invocation{}, fmt.Errorf("%w: expansion failed: %v", ErrUnsupportedSyntax, r)
		}
	}()

	cfg := &expand.Config{Env: env}
	call := st.Cmd.(*syntax.CallExpr)

	args, err := expand.Fields(cfg, call.Args...)
	if err != nil {
		return invocation{}, err
	}
	if len(args) == 0 {
		return invocation{}, fmt.Errorf("%w: command expands to nothing", ErrUnsupportedSyntax)
	}

	inv = invocation{args: args}
	for _, rd := range st.Redirs {
		target, err := expand.Literal(cfg, rd.Word)
		if err != nil {
			return invocation{}, err
		}
		inv.redirect = &redirect{target: target, append: rd.Op == syntax.AppOut}
	}
	return inv, nil
}
