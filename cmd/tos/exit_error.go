// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tasnuva/tos/internal/issue"
)

type (
	// ExitError signals a non-zero exit code without calling os.Exit in
	// RunE handlers. A nil Err means the message was already printed.
	ExitError struct {
		Code int
		Err  error
	}

	// guidedError carries an issue catalog entry to render below the error.
	guidedError struct {
		Err     error
		IssueID issue.Id
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error { return e.Err }

// withIssue attaches a catalog entry to err. A nil err stays nil.
func withIssue(err error, id issue.Id) error {
	if err == nil {
		return nil
	}
	return &guidedError{Err: err, IssueID: id}
}

func (e *guidedError) Error() string { return e.Err.Error() }

func (e *guidedError) Unwrap() error { return e.Err }

// renderIssue writes the catalog entry of e in the given glamour style.
func (e *guidedError) renderIssue(w io.Writer, style string) {
	entry := issue.Get(e.IssueID)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", e.IssueID, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
