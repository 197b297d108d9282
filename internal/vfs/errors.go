// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path does not exist or has the wrong kind
	// for the operation (reading a directory, listing a file).
	ErrNotFound = errors.New("no such file or directory")
	// ErrAlreadyExists is returned when a creation target is already present.
	ErrAlreadyExists = errors.New("file exists")
	// ErrNoParent is returned when the parent of a new node is missing or is
	// not a directory.
	ErrNoParent = errors.New("parent directory does not exist")
	// ErrNotEmpty is returned when removing a directory that has descendants.
	ErrNotEmpty = errors.New("directory not empty")
	// ErrRejected is returned when writing file content to a directory path.
	ErrRejected = errors.New("is a directory")
	// ErrBusy is returned when removing the root or the current directory of
	// the session.
	ErrBusy = errors.New("device or resource busy")
	// ErrStorage wraps every failure of the underlying database.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidTree is returned when a set of nodes violates the namespace
	// invariants and cannot be restored.
	ErrInvalidTree = errors.New("invalid filesystem tree")
)

// PathError records a failed operation together with the canonical path it
// was applied to.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying sentinel or storage error.
func (e *PathError) Unwrap() error { return e.Err }

// pathError builds a *PathError for op on path.
func pathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// storageError marks a driver error as a storage failure while keeping the
// original error reachable through errors.Is/As.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
