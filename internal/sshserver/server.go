// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/tasnuva/tos/internal/shell"
	"github.com/tasnuva/tos/internal/vfs"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/puzpuzpuz/xsync/v4"
)

type (
	// Config holds immutable server settings.
	Config struct {
		// Host is the address to bind to (default: localhost).
		Host string
		// Port is the port to listen on. 0 picks a free port.
		Port int
		// HostKeyPath is the ed25519 host key, generated when missing.
		HostKeyPath string
		// Password is required from every client. Empty generates one.
		Password string
		// PromptName and User configure each session's shell.
		PromptName string
		User       string
		// Banner is printed at the start of interactive sessions.
		Banner string
		// IdleTimeout closes quiet connections. 0 disables it.
		IdleTimeout time.Duration
		// ShutdownTimeout bounds the wait for open sessions in Stop.
		ShutdownTimeout time.Duration
		// StartupTimeout bounds Start.
		StartupTimeout time.Duration
	}

	// Option configures a Server.
	Option func(*Server)

	// Server serves shells over SSH.
	Server struct {
		lifecycle

		cfg      Config
		store    *vfs.Store
		registry *shell.Registry
		logger   *log.Logger
		sessions *xsync.Map[string, SessionInfo]

		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string
	}
)

// DefaultConfig returns the settings used for zero fields of Config.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		HostKeyPath:     ".ssh/tos_ed25519",
		PromptName:      shell.DefaultPromptName,
		User:            shell.DefaultUser,
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry sets the command registry of every session shell.
func WithRegistry(r *shell.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.registry = r
		}
	}
}

// New creates a server over store. It does not listen until Start.
func New(store *vfs.Store, cfg Config, opts ...Option) (*Server, error) {
	defaults := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = defaults.HostKeyPath
	}
	if cfg.PromptName == "" {
		cfg.PromptName = defaults.PromptName
	}
	if cfg.User == "" {
		cfg.User = defaults.User
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if cfg.Password == "" {
		password, err := generatePassword()
		if err != nil {
			return nil, err
		}
		cfg.Password = password
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		registry: shell.DefaultRegistry,
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "ssh"}),
		sessions: xsync.NewMap[string, SessionInfo](),
	}
	s.lifecycle.init()
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Password returns the password clients must present.
func (s *Server) Password() string { return s.cfg.Password }

// Start listens and returns once the server accepts connections, failed,
// or ctx ended. After a nil return, watch Err for runtime failures.
func (s *Server) Start(ctx context.Context) error {
	if err := s.toStarting(ctx); err != nil {
		return err
	}

	startupCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.toFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.LastError()
	}

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithHostKeyPath(s.cfg.HostKeyPath),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		wish.WithMiddleware(s.shellMiddleware()),
	}
	if s.cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.cfg.IdleTimeout))
	}
	srv, err := wish.NewServer(opts...)
	if err != nil {
		_ = listener.Close() // Best-effort cleanup on error
		s.toFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	s.wg.Add(1)
	go s.serve(srv, listener)

	select {
	case <-s.startedCh:
		s.logger.Info("SSH server started", "address", s.Address())
		return nil
	case err := <-s.errCh:
		s.toFailed(err)
		return err
	case <-startupCtx.Done():
		s.toFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

func (s *Server) serve(srv *ssh.Server, listener net.Listener) {
	defer s.wg.Done()

	s.toRunning()

	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	s.sendError(fmt.Errorf("serve error: %w", err))
}

// Stop closes the listener and waits for open sessions up to
// ShutdownTimeout. It is safe to call more than once.
func (s *Server) Stop() error {
	if !s.toStopping() {
		s.wg.Wait()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("shutdown error", "error", err)
			shutdownErr = err
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() // Already closed by Shutdown in the common case
	}
	s.srvMu.Unlock()

	s.wg.Wait()
	s.state.Store(int32(StateStopped))
	close(s.errCh)
	s.logger.Info("SSH server stopped")
	return shutdownErr
}

// Wait blocks until the server goroutines have exited and returns the
// failure cause, if any.
func (s *Server) Wait() error {
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.LastError()
	}
	return nil
}

// Address returns the bound host:port, or "" before Start succeeded.
func (s *Server) Address() string {
	s.srvMu.Lock()
	defer s.srvMu.Unlock()
	return s.addr
}

// Port returns the bound port, or 0 before Start succeeded.
func (s *Server) Port() int {
	_, port, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 0
	}
	return n
}

func generatePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
