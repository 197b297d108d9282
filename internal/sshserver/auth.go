// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"crypto/subtle"

	"github.com/charmbracelet/ssh"
)

func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) != 1 {
		s.logger.Warn("rejected password", "user", ctx.User(), "remote", ctx.RemoteAddr())
		return false
	}
	return true
}

// publicKeyHandler rejects every key so clients fall back to passwords.
func (s *Server) publicKeyHandler(ctx ssh.Context, _ ssh.PublicKey) bool {
	s.logger.Debug("rejected public key", "user", ctx.User())
	return false
}
