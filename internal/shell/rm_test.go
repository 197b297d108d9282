// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"testing"

	"github.com/tasnuva/tos/internal/testutil/vfstest"
)

func TestRmCommand_Name(t *testing.T) {
	t.Parallel()

	cmd, ok := DefaultRegistry.Lookup("rm")
	if !ok {
		t.Fatal("rm is not registered")
	}
	if got := cmd.Description(); got != "Remove files and directories" {
		t.Errorf("Description() = %q", got)
	}
}

func TestRmCommand_FilesThenDirectory(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t, vfstest.WithFile("/home/user/a.txt", "a"), vfstest.WithFile("/home/user/b.txt", "b"))
	ts.mustRun(t, "rm /home/user/a.txt /home/user/b.txt")
	ts.mustRun(t, "cd /home; rm user")

	if ok, _ := ts.sess.Exists(context.Background(), "/home/user"); ok {
		t.Error("/home/user should be gone")
	}
}

func TestRmCommand_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t, vfstest.WithFile("/home/user/a.txt", "a"))
	tests := []struct {
		line string
		want string
	}{
		{"rm", "rm: missing operand\n"},
		{"rm /ghost", "rm: cannot remove '/ghost': No such file or directory\n"},
		{"rm /home", "rm: cannot remove '/home': Directory not empty\n"},
		{"rm /", "rm: cannot remove '/': Directory not empty\n"},
		{"cd /home/user; rm ..", "rm: cannot remove '..': Directory not empty\n"},
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

	if got := ts.readFile(t, "/home/user/a.txt"); got != "a" {
		t.Errorf("failed removals changed the tree: %q", got)
	}
}

func TestRmCommand_CurrentDirectory(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t, vfstest.WithDir("/home/user"))
	_, errOut, err := ts.run(t, "cd /home/user; rm .")
	if want := "rm: cannot remove '.': Device or resource busy\n"; errOut != want {
		t.Errorf("stderr = %q, want %q", errOut, want)
	}
	if err == nil {
		t.Error("removing the current directory should fail")
	}
	if ok, _ := ts.sess.Exists(context.Background(), "/home/user"); !ok {
		t.Error("/home/user was removed")
	}
}
