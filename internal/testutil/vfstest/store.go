// SPDX-License-Identifier: MPL-2.0

package vfstest

import (
	"context"
	"testing"
	"time"

	"github.com/tasnuva/tos/internal/testutil"
	"github.com/tasnuva/tos/internal/vfs"
)

type (
	// StoreOption stages extra nodes on top of the seeded tree.
	StoreOption func(t testing.TB, s *vfs.Store)
)

// NewStore opens a private in-memory store driven by a FakeClock and closes
// it when the test ends.
func NewStore(t testing.TB, opts ...StoreOption) *vfs.Store {
	t.Helper()
	return NewStoreWithClock(t, testutil.NewFakeClock(time.Time{}), opts...)
}

// NewStoreWithClock is NewStore with a caller-owned clock, for tests that
// advance time between operations.
func NewStoreWithClock(t testing.TB, clock *testutil.FakeClock, opts ...StoreOption) *vfs.Store {
	t.Helper()

	store, err := vfs.Open(context.Background(), vfs.MemoryDSN, vfs.WithClock(clock))
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("warning: close store: %v", err)
		}
	})

	for _, opt := range opts {
		opt(t, store)
	}
	return store
}

// NewSession returns a session on a fresh store built by NewStore.
func NewSession(t testing.TB, opts ...StoreOption) *vfs.Session {
	t.Helper()
	return vfs.NewSession(NewStore(t, opts...))
}

// WithDir creates the directory and its missing parents.
func WithDir(path string) StoreOption {
	return func(t testing.TB, s *vfs.Store) {
		t.Helper()
		if err := s.CreateDirectoryAll(context.Background(), path); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}
}

// WithFile writes a file, creating its parent directories first.
func WithFile(path, content string) StoreOption {
	return func(t testing.TB, s *vfs.Store) {
		t.Helper()
		ctx := context.Background()
		if parent := vfs.Parent(path); parent != vfs.Root {
			if err := s.CreateDirectoryAll(ctx, parent); err != nil {
				t.Fatalf("failed to create %s: %v", parent, err)
			}
		}
		if err := s.WriteFile(ctx, path, content, false); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}
