// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
)

// ErrInterrupted is returned by a LineReader when the user pressed Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

const keyCtrlC = 0x03

type (
	// LineReader supplies command lines to Shell.Run.
	LineReader interface {
		// ReadLine shows prompt and returns the next line without its line
		// terminator. It returns io.EOF at end of input.
		ReadLine(prompt string) (string, error)
	}

	// streamReader reads lines from a plain stream such as a pipe.
	streamReader struct {
		in  *bufio.Reader
		out io.Writer
	}

	// TerminalReader is a line editor for interactive terminals. It is also
	// the io.Writer the shell must print through, so output interleaves
	// correctly with the line being edited.
	TerminalReader struct {
		out     io.Writer
		tracker *interruptTracker

		mu            sync.Mutex // guards term and the size, which change off the read loop
		term          *term.Terminal
		width, height int
	}

	// interruptTracker notices Ctrl-C bytes on their way to the line editor,
	// which reports both Ctrl-C and Ctrl-D as io.EOF.
	interruptTracker struct {
		r    io.Reader
		seen atomic.Bool
	}
)

// NewStreamReader reads lines from in and writes prompts to out. A nil out
// suppresses prompts.
func NewStreamReader(in io.Reader, out io.Writer) LineReader {
	return &streamReader{in: bufio.NewReader(in), out: out}
}

func (r *streamReader) ReadLine(prompt string) (string, error) {
	if r.out != nil && prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// NewTerminalReader wraps rw, which must be a terminal in raw mode (or an
// SSH channel with a PTY).
func NewTerminalReader(rw io.ReadWriter) *TerminalReader {
	r := &TerminalReader{out: rw, tracker: &interruptTracker{r: rw}}
	r.term = r.newTerminal()
	return r
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	t := r.current()
	t.SetPrompt(prompt)
	line, err := t.ReadLine()
	switch {
	case errors.Is(err, term.ErrPasteIndicator):
		return line, nil
	case errors.Is(err, io.EOF) && r.tracker.seen.Swap(false):
		// The editor keeps returning io.EOF once it has seen Ctrl-C, so
		// the rest of the session gets a fresh one.
		r.mu.Lock()
		r.term = r.newTerminal()
		r.mu.Unlock()
		return "", ErrInterrupted
	}
	return line, err
}

func (r *TerminalReader) current() *term.Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.term
}

func (r *TerminalReader) newTerminal() *term.Terminal {
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{r.tracker, r.out}, "")
	if r.width > 0 && r.height > 0 {
		_ = t.SetSize(r.width, r.height) // Fresh editor has no line to redraw
	}
	return t
}

// Write prints p above the line being edited, translating "\n" to "\r\n".
func (r *TerminalReader) Write(p []byte) (int, error) {
	return r.current().Write(p)
}

// SetSize updates the terminal dimensions after a window change.
func (r *TerminalReader) SetSize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	return r.term.SetSize(width, height)
}

func (t *interruptTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if bytes.IndexByte(p[:n], keyCtrlC) >= 0 {
		t.seen.Store(true)
	}
	return n, err
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}
