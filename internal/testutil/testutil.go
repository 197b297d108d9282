// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"testing"
)

// Stopper is implemented by servers.
type Stopper interface {
	Stop() error
}

// MustChdir switches the process working directory to dir and returns a
// func that switches back. Tests calling it must not run in parallel.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("chdir back to %s: %v", prev, err)
		}
	}
}

// MustWriteFile writes a host fixture such as a config or snapshot file.
func MustWriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustClose fails the test when c cannot be closed.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

// MustStop stops s during cleanup. A failed stop is only logged.
func MustStop(t testing.TB, s Stopper) {
	t.Helper()
	if err := s.Stop(); err != nil {
		t.Logf("stop: %v", err)
	}
}
