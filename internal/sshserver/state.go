// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// StateCreated means Start has not been called.
	StateCreated State = iota
	// StateStarting means the listener is being set up.
	StateStarting
	// StateRunning means connections are accepted.
	StateRunning
	// StateStopping means Stop is draining sessions.
	StateStopping
	// StateStopped is terminal.
	StateStopped
	// StateFailed is terminal. LastError holds the cause.
	StateFailed
)

type (
	// State is the lifecycle state of a Server. A Server is single-use:
	// once stopped or failed, create a new one.
	State int32

	// lifecycle tracks state transitions and background goroutines.
	lifecycle struct {
		state atomic.Int32

		mu      sync.Mutex
		lastErr error

		ctx       context.Context
		cancel    context.CancelFunc
		wg        sync.WaitGroup
		startedCh chan struct{}
		errCh     chan error
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state is Stopped or Failed.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateFailed
}

func (l *lifecycle) init() {
	l.startedCh = make(chan struct{})
	l.errCh = make(chan error, 1)
}

// State returns the current state.
func (l *lifecycle) State() State { return State(l.state.Load()) }

// IsRunning reports whether the server accepts connections.
func (l *lifecycle) IsRunning() bool { return l.State() == StateRunning }

// Err delivers fatal errors raised after Start returned. It is closed
// once the server has stopped.
func (l *lifecycle) Err() <-chan error { return l.errCh }

// LastError returns the error that moved the server to StateFailed.
func (l *lifecycle) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// toStarting moves Created to Starting. A cancelled ctx fails the server
// before anything is set up.
func (l *lifecycle) toStarting(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		l.toFailed(fmt.Errorf("context cancelled before start: %w", err))
		return l.LastError()
	}
	if !l.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", l.State())
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return nil
}

func (l *lifecycle) toRunning() {
	if l.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(l.startedCh)
	}
}

func (l *lifecycle) toFailed(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()

	l.state.Store(int32(StateFailed))
	if l.cancel != nil {
		l.cancel()
	}
	l.sendError(err)
}

// toStopping reports whether the caller owns the shutdown.
func (l *lifecycle) toStopping() bool {
	for {
		current := l.State()
		switch current {
		case StateCreated:
			if l.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
		case StateStarting, StateRunning:
			if l.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				if l.cancel != nil {
					l.cancel()
				}
				return true
			}
		default:
			return false
		}
	}
}

func (l *lifecycle) sendError(err error) {
	select {
	case l.errCh <- err:
	default:
	}
}
