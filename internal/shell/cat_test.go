// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"testing"

	"github.com/tasnuva/tos/internal/testutil/vfstest"
	"github.com/tasnuva/tos/internal/vfs"
)

func TestCatCommand(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t,
		vfstest.WithFile("/tmp/padded.txt", "body  \n\n\t"),
		vfstest.WithFile("/tmp/empty.txt", ""),
		vfstest.WithFile("/tmp/b.txt", "second"),
	)

	tests := []struct {
		line string
		want string
	}{
		{"cat /welcome.txt", vfs.WelcomeText},
		{"cat /tmp/padded.txt", "body\n"},
		{"cat /tmp/empty.txt", ""},
		{"cat /tmp/padded.txt /tmp/b.txt", "body\nsecond\n"},
	}
	for _, tt := range tests {
		if got := ts.mustRun(t, tt.line); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestCatCommand_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	tests := []struct {
		line string
		want string
	}{
		{"cat", "cat: missing file operand\n"},
		{"cat /nope.txt", "cat: /nope.txt: No such file\n"},
		{"cat /home", "cat: /home: No such file\n"},
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

func TestEchoCommand(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	tests := []struct {
		line string
		want string
	}{
		{"echo", ""},
		{"echo hello", "hello\n"},
		{"echo  many   spaces  ", "many spaces\n"},
		{"echo -n literal", "-n literal\n"},
	}
	for _, tt := range tests {
		if got := ts.mustRun(t, tt.line); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestEchoCommand_WriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	ts.mustRun(t, `echo "line one" > /home/log.txt`)
	ts.mustRun(t, `echo "line two" >> /home/log.txt`)

	if got := ts.mustRun(t, "cat /home/log.txt"); got != "line one\nline two\n" {
		t.Errorf("cat after append = %q", got)
	}

	ts.mustRun(t, `echo replaced > /home/log.txt`)
	if got := ts.mustRun(t, "cat /home/log.txt"); got != "replaced\n" {
		t.Errorf("cat after overwrite = %q", got)
	}
}
