// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/tasnuva/tos/internal/shell"
	"github.com/tasnuva/tos/internal/vfs"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/google/uuid"
)

// SessionInfo describes a connected SSH session.
type SessionInfo struct {
	ID          string
	User        string
	RemoteAddr  string
	Interactive bool
	StartedAt   time.Time
}

// Sessions returns the open sessions, oldest first.
func (s *Server) Sessions() []SessionInfo {
	out := make([]SessionInfo, 0, s.sessions.Size())
	s.sessions.Range(func(_ string, info SessionInfo) bool {
		out = append(out, info)
		return true
	})
	slices.SortFunc(out, func(a, b SessionInfo) int { return a.StartedAt.Compare(b.StartedAt) })
	return out
}

func (s *Server) shellMiddleware() wish.Middleware {
	return func(ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			info := SessionInfo{
				ID:          uuid.NewString(),
				User:        sess.User(),
				RemoteAddr:  sess.RemoteAddr().String(),
				Interactive: sess.RawCommand() == "",
				StartedAt:   time.Now(),
			}
			s.sessions.Store(info.ID, info)
			defer s.sessions.Delete(info.ID)

			logger := s.logger.With("session", info.ID, "user", info.User)
			logger.Info("session opened", "remote", info.RemoteAddr, "interactive", info.Interactive)

			code := s.runSession(sess)
			logger.Info("session closed", "exit", code)
			_ = sess.Exit(code) // Client may already be gone
		}
	}
}

// runSession returns the exit status for sess.
func (s *Server) runSession(sess ssh.Session) int {
	fs := vfs.NewSession(s.store)
	ctx := sess.Context()

	if line := sess.RawCommand(); line != "" {
		sh := s.newShell(fs, sess, sess.Stderr(), sess.User())
		err := sh.Execute(ctx, line)
		switch {
		case err == nil, errors.Is(err, shell.ErrExit):
			return 0
		default:
			return 1
		}
	}

	var (
		out    io.Writer = sess
		reader shell.LineReader
	)
	if pty, winCh, isPty := sess.Pty(); isPty {
		tr := shell.NewTerminalReader(sess)
		_ = tr.SetSize(pty.Window.Width, pty.Window.Height) // Fresh editor
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case win, ok := <-winCh:
					if !ok {
						return
					}
					_ = tr.SetSize(win.Width, win.Height) // Redraw failures are cosmetic
				}
			}
		}()
		out, reader = tr, tr
	} else {
		reader = shell.NewStreamReader(sess, sess)
	}

	sh := s.newShell(fs, out, out, sess.User())
	if s.cfg.Banner != "" {
		fmt.Fprint(out, s.cfg.Banner)
	}
	if err := sh.Run(ctx, reader); err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		s.logger.Warn("shell ended with error", "error", err)
		return 1
	}
	return 0
}

func (s *Server) newShell(fs shell.FileSystem, stdout, stderr io.Writer, user string) *shell.Shell {
	return shell.New(fs, stdout,
		shell.WithStderr(stderr),
		shell.WithRegistry(s.registry),
		shell.WithPromptName(s.cfg.PromptName),
		shell.WithUser(sessionUser(user, s.cfg.User)),
	)
}

// sessionUser prefers the SSH login name when it is usable as $USER.
func sessionUser(login, fallback string) string {
	if login == "" {
		return fallback
	}
	for _, c := range login {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
			return fallback
		}
	}
	return login
}
