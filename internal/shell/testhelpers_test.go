// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/tasnuva/tos/internal/testutil/vfstest"
	"github.com/tasnuva/tos/internal/vfs"
)

// testShell bundles a shell with its captured output and session.
type testShell struct {
	*Shell
	sess   *vfs.Session
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestShell(t *testing.T, opts ...vfstest.StoreOption) *testShell {
	t.Helper()

	sess := vfstest.NewSession(t, opts...)
	var stdout, stderr bytes.Buffer
	return &testShell{
		Shell:  New(sess, &stdout, WithStderr(&stderr)),
		sess:   sess,
		stdout: &stdout,
		stderr: &stderr,
	}
}

// run executes line and returns what was written to stdout and stderr.
func (ts *testShell) run(t *testing.T, line string) (string, string, error) {
	t.Helper()
	ts.stdout.Reset()
	ts.stderr.Reset()
	err := ts.Execute(context.Background(), line)
	return ts.stdout.String(), ts.stderr.String(), err
}

// mustRun executes line and fails the test if anything was reported.
func (ts *testShell) mustRun(t *testing.T, line string) string {
	t.Helper()
	out, errOut, err := ts.run(t, line)
	if err != nil || errOut != "" {
		t.Fatalf("Execute(%q) error = %v, stderr = %q", line, err, errOut)
	}
	return out
}

// readFile reads a file straight from the session.
func (ts *testShell) readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := ts.sess.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile(%q) error: %v", path, err)
	}
	return content
}
