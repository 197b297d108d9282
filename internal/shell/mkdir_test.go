// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"testing"
)

func TestMkdirCommand(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	ts.mustRun(t, "mkdir /a /b")
	ts.mustRun(t, "cd /a; mkdir child")
	ts.mustRun(t, "mkdir -p /deep/er/est")
	ts.mustRun(t, "mkdir -p /deep/er")

	for _, dir := range []string{"/a", "/b", "/a/child", "/deep", "/deep/er", "/deep/er/est"} {
		ok, err := ts.sess.IsDirectory(context.Background(), dir)
		if err != nil || !ok {
			t.Errorf("%s should be a directory (err=%v)", dir, err)
		}
	}
}

func TestMkdirCommand_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	tests := []struct {
		line string
		want string
	}{
		{"mkdir", "mkdir: missing operand\n"},
		{"mkdir -p", "mkdir: missing operand\n"},
		{"mkdir /home", "mkdir: cannot create directory '/home': File exists\n"},
		{"mkdir /welcome.txt", "mkdir: cannot create directory '/welcome.txt': File exists\n"},
		{"mkdir /x/y", "mkdir: cannot create directory '/x/y': No such file or directory\n"},
		{"mkdir -p /welcome.txt/y", "mkdir: cannot create directory '/welcome.txt/y': No such file or directory\n"},
	}
	for _, tt := range tests {
		_, errOut, err := ts.run(t, tt.line)
		if errOut != tt.want {
			t.Errorf("%s stderr = %q, want %q", tt.line, errOut, tt.want)
		}
		if err == nil {
			t.Errorf("%s should fail", tt.line)
		}
	}
}

func TestMkdirCommand_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	_, _, _ = ts.run(t, "mkdir /one /home /two")

	ctx := context.Background()
	if ok, _ := ts.sess.Exists(ctx, "/one"); !ok {
		t.Error("/one should have been created")
	}
	if ok, _ := ts.sess.Exists(ctx, "/two"); ok {
		t.Error("/two should not have been created after the failure")
	}
}
