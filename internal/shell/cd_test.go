// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"testing"

	"github.com/tasnuva/tos/internal/testutil/vfstest"
)

func TestCdCommand(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t, vfstest.WithDir("/home/user/docs"))
	steps := []struct {
		line string
		want string
	}{
		{"cd home", "/home"},
		{"cd user/docs/", "/home/user/docs"},
		{"cd ..", "/home/user"},
		{"cd ../../../..", "/"},
		{"cd /tmp", "/tmp"},
		{"cd", "/"},
		{"cd ~/user", "/home/user"},
	}

	for _, step := range steps {
		ts.mustRun(t, step.line)
		if got := ts.mustRun(t, "pwd"); got != step.want+"\n" {
			t.Errorf("after %q pwd = %q, want %q", step.line, got, step.want)
		}
	}
}

func TestCdCommand_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	ts.mustRun(t, "cd /home")

	tests := []struct {
		line string
		want string
	}{
		{"cd nowhere", "cd: nowhere: No such directory\n"},
		{"cd /welcome.txt", "cd: /welcome.txt: No such directory\n"},
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

	if got := ts.mustRun(t, "pwd"); got != "/home\n" {
		t.Errorf("failed cd moved the cursor to %q", got)
	}
}

func TestPwdCommand_IgnoresArguments(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	if got := ts.mustRun(t, "pwd -L extra"); got != "/\n" {
		t.Errorf("pwd = %q", got)
	}
}
