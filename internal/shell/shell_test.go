// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestShell_Prompt(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	if got := ts.Prompt(); got != "Tasnuva TOS:/$ " {
		t.Errorf("Prompt() = %q", got)
	}

	ts.mustRun(t, "cd /home")
	if got := ts.Prompt(); got != "Tasnuva TOS:/home$ " {
		t.Errorf("Prompt() after cd = %q", got)
	}

	custom := New(ts.sess, io.Discard, WithPromptName("box"))
	if got := custom.Prompt(); got != "box:/home$ " {
		t.Errorf("Prompt() with name = %q", got)
	}
}

func TestShell_Execute_Exit(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	for _, line := range []string{"exit", "EXIT", "  exit  ", "pwd; exit; pwd"} {
		_, _, err := ts.run(t, line)
		if !errors.Is(err, ErrExit) {
			t.Errorf("Execute(%q) = %v, want ErrExit", line, err)
		}
	}
	// Statements after exit are not run.
	if out, _, _ := ts.run(t, "exit; pwd"); out != "" {
		t.Errorf("statement after exit produced %q", out)
	}
}

func TestShell_Execute_BlankLine(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	out, errOut, err := ts.run(t, "   \t ")
	if err != nil || out != "" || errOut != "" {
		t.Errorf("blank line: out=%q stderr=%q err=%v", out, errOut, err)
	}
}

func TestShell_Execute_CommandNotFound(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	_, errOut, err := ts.run(t, "Frobnicate now")
	if errOut != "frobnicate: command not found\n" {
		t.Errorf("stderr = %q", errOut)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("err = %v, want ErrCommandFailed", err)
	}
}

func TestShell_Execute_CaseInsensitiveName(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	if out := ts.mustRun(t, "PWD"); out != "/\n" {
		t.Errorf("PWD output = %q", out)
	}
}

func TestShell_Execute_Quoting(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	tests := []struct {
		line string
		want string
	}{
		{`echo "a  b" c`, "a  b c\n"},
		{`echo 'single $HOME'`, "single $HOME\n"},
		{`echo escaped\ space`, "escaped space\n"},
		{`echo $HOME $USER`, "/home guest\n"},
		{`echo hi # comment`, "hi\n"},
	}

	for _, tt := range tests {
		if got := ts.mustRun(t, tt.line); got != tt.want {
			t.Errorf("Execute(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestShell_Execute_StatementsShareState(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	if out := ts.mustRun(t, "mkdir /work; cd /work; pwd"); out != "/work\n" {
		t.Errorf("output = %q", out)
	}
	if out := ts.mustRun(t, "cd /tmp\necho $PWD"); out != "/tmp\n" {
		t.Errorf("$PWD output = %q", out)
	}
}

func TestShell_Execute_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	out, errOut, err := ts.run(t, "cd /nowhere; pwd")
	if out != "/\n" {
		t.Errorf("stdout = %q", out)
	}
	if errOut != "cd: /nowhere: No such directory\n" {
		t.Errorf("stderr = %q", errOut)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("err = %v, want ErrCommandFailed", err)
	}
}

func TestShell_Execute_ParseErrors(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	for _, line := range []string{
		`echo "unterminated`,
		"ls | cat",
		"pwd && ls",
		"(ls)",
		"ls &",
		"X=1 ls",
		"echo $(pwd)",
		"echo `pwd`",
		"echo <(ls)",
		"cat >(ls)",
		"echo \"$(pwd)\"",
		"cat < /welcome.txt",
		"ls 2> /tmp/err",
	} {
		out, errOut, err := ts.run(t, line)
		if out != "" {
			t.Errorf("Execute(%q) stdout = %q, want nothing", line, out)
		}
		if !strings.HasPrefix(errOut, "Error parsing command: ") {
			t.Errorf("Execute(%q) stderr = %q", line, errOut)
		}
		if !errors.Is(err, ErrCommandFailed) {
			t.Errorf("Execute(%q) err = %v", line, err)
		}
	}
}

func TestShell_Execute_Redirection(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	if out := ts.mustRun(t, "echo hello world > /tmp/greet.txt"); out != "" {
		t.Errorf("redirected command printed %q", out)
	}
	if got := ts.readFile(t, "/tmp/greet.txt"); got != "hello world\n" {
		t.Errorf("file = %q", got)
	}

	ts.mustRun(t, "echo again >> /tmp/greet.txt")
	if got := ts.readFile(t, "/tmp/greet.txt"); got != "hello world\nagain\n" {
		t.Errorf("file after append = %q", got)
	}

	ts.mustRun(t, "cd /tmp; pwd > here")
	if got := ts.readFile(t, "/tmp/here"); got != "/tmp\n" {
		t.Errorf("relative redirect = %q", got)
	}

	ts.mustRun(t, "ls / > /tmp/listing")
	if got := ts.readFile(t, "/tmp/listing"); !strings.Contains(got, "welcome.txt") {
		t.Errorf("ls redirect = %q", got)
	}
}

func TestShell_Execute_RedirectionErrorsStayOnStderr(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	_, errOut, err := ts.run(t, "cat /missing > /tmp/out")
	if errOut != "cat: /missing: No such file\n" {
		t.Errorf("stderr = %q", errOut)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("err = %v", err)
	}
	if got := ts.readFile(t, "/tmp/out"); got != "" {
		t.Errorf("redirect target = %q, want empty", got)
	}
}

func TestShell_Execute_RedirectionFailure(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	_, errOut, err := ts.run(t, "echo hi > /nodir/file")
	if errOut != "echo: cannot write to /nodir/file\n" {
		t.Errorf("stderr = %q", errOut)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("err = %v", err)
	}

	_, errOut, _ = ts.run(t, "echo hi > /home")
	if errOut != "echo: cannot write to /home\n" {
		t.Errorf("stderr for directory target = %q", errOut)
	}
}

func TestShell_Execute_RecoversPanic(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	r := NewRegistry()
	r.Register(&mockCommand{name: "boom", runFn: func(context.Context, []string) error {
		panic("kaboom")
	}})
	r.Register(newLsCommand())
	sh := New(ts.sess, ts.stdout, WithStderr(ts.stderr), WithRegistry(r))

	err := sh.Execute(context.Background(), "boom; ls /tmp")
	if got := ts.stderr.String(); got != "Error executing boom: kaboom\n" {
		t.Errorf("stderr = %q", got)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("err = %v", err)
	}
}

func TestShell_Run(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	in := NewStreamReader(strings.NewReader("pwd\n\ncd /home\npwd\nexit\nls\n"), ts.stdout)

	if err := ts.Run(context.Background(), in); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "Tasnuva TOS:/$ /\n" +
		"Tasnuva TOS:/$ " +
		"Tasnuva TOS:/$ " +
		"Tasnuva TOS:/home$ /home\n" +
		"Tasnuva TOS:/home$ "
	if got := ts.stdout.String(); got != want {
		t.Errorf("Run() output =\n%q\nwant\n%q", got, want)
	}
}

func TestShell_Run_EndOfInput(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	if err := ts.Run(context.Background(), NewStreamReader(strings.NewReader("mkdir /a"), nil)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	ok, err := ts.sess.IsDirectory(context.Background(), "/a")
	if err != nil || !ok {
		t.Errorf("last line without newline was not run: ok=%v err=%v", ok, err)
	}
}

func TestShell_Run_Interrupt(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	in := &scriptedReader{results: []readResult{
		{err: ErrInterrupted},
		{line: "pwd"},
	}}

	if err := ts.Run(context.Background(), in); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := "\n" + InterruptHint + "\n/\n"
	if got := ts.stdout.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestShell_Run_ContextCancelled(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ts.Run(ctx, NewStreamReader(strings.NewReader("pwd\n"), nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestShell_Interrupt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ts := newTestShell(t)
	sh := New(ts.sess, &out)
	sh.lastPrompt = "p$ "
	sh.Interrupt()

	if got := out.String(); got != "\n"+InterruptHint+"\np$ " {
		t.Errorf("Interrupt() wrote %q", got)
	}
}

// exclusiveWriter records whether two Write calls ever overlapped.
type exclusiveWriter struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	writes   atomic.Int32
}

func (w *exclusiveWriter) Write(p []byte) (int, error) {
	if w.inFlight.Add(1) > 1 {
		w.overlap.Store(true)
	}
	time.Sleep(10 * time.Microsecond)
	w.writes.Add(1)
	w.inFlight.Add(-1)
	return len(p), nil
}

func TestShell_InterruptDuringCommandOutput(t *testing.T) {
	t.Parallel()

	ts := newTestShell(t)
	r := NewRegistry()
	r.Register(&mockCommand{name: "chatter", runFn: func(ctx context.Context, _ []string) error {
		hc := GetHandlerContext(ctx)
		for range 200 {
			fmt.Fprint(hc.Stdout, "line\n")
		}
		return nil
	}})

	var w exclusiveWriter
	sh := New(ts.sess, &w, WithRegistry(r))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				sh.Interrupt()
			}
		}
	}()

	err := sh.Execute(context.Background(), "chatter")
	close(done)
	wg.Wait()

	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if w.overlap.Load() {
		t.Error("command output and Interrupt wrote to stdout at the same time")
	}
	if w.writes.Load() < 200 {
		t.Errorf("writes = %d, want at least 200", w.writes.Load())
	}
}

type (
	readResult struct {
		line string
		err  error
	}

	// scriptedReader replays fixed results, then reports io.EOF.
	scriptedReader struct {
		results []readResult
	}
)

func (r *scriptedReader) ReadLine(string) (string, error) {
	if len(r.results) == 0 {
		return "", io.EOF
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res.line, res.err
}
