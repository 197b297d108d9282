// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"io"

	"github.com/spf13/pflag"

	"github.com/tasnuva/tos/internal/vfs"
)

// newFlagSet returns a silent flag set; parse errors are reported by the
// command itself.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// reason turns a filesystem error into the phrase coreutils would print.
func reason(err error) string {
	switch {
	case errors.Is(err, vfs.ErrNotFound), errors.Is(err, vfs.ErrNoParent):
		return "No such file or directory"
	case errors.Is(err, vfs.ErrAlreadyExists):
		return "File exists"
	case errors.Is(err, vfs.ErrNotEmpty):
		return "Directory not empty"
	case errors.Is(err, vfs.ErrRejected):
		return "Is a directory"
	case errors.Is(err, vfs.ErrBusy):
		return "Device or resource busy"
	default:
		return err.Error()
	}
}
