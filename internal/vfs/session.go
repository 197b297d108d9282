// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"context"
	"errors"
)

// Session is one user's view of a Store: it owns the current directory and
// resolves every raw path against it before touching the table.
//
// A Session is not safe for concurrent use. Create one per shell.
type Session struct {
	store      *Store
	cwd        string
	generation uint64
}

// NewSession starts a session at the root directory.
func NewSession(store *Store) *Session {
	return &Session{
		store:      store,
		cwd:        Root,
		generation: store.Generation(),
	}
}

// Store returns the backing store.
func (s *Session) Store() *Store { return s.store }

// Resolve normalizes raw against the current directory.
func (s *Session) Resolve(raw string) string {
	return Normalize(raw, s.CurrentDirectory())
}

// CurrentDirectory returns the cursor. After the store was reset or restored
// by any session the cursor is back at the root.
func (s *Session) CurrentDirectory() string {
	if g := s.store.Generation(); g != s.generation {
		s.cwd = Root
		s.generation = g
	}
	return s.cwd
}

// ChangeDirectory moves the cursor to path, which must be an existing
// directory. On failure the cursor is left unchanged.
func (s *Session) ChangeDirectory(ctx context.Context, path string) error {
	p := s.Resolve(path)
	node, err := s.store.Lookup(ctx, p)
	if err != nil {
		return relabel("chdir", err)
	}
	if !node.IsDir() {
		return pathError("chdir", p, ErrNotFound)
	}
	s.cwd = p
	return nil
}

// Exists reports whether path names a node.
func (s *Session) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.Stat(ctx, path)
	return found(err)
}

// IsDirectory reports whether path names a directory. A missing path is not
// an error.
func (s *Session) IsDirectory(ctx context.Context, path string) (bool, error) {
	node, err := s.Stat(ctx, path)
	if ok, err := found(err); !ok {
		return false, err
	}
	return node.IsDir(), nil
}

// IsFile reports whether path names a file. A missing path is not an error.
func (s *Session) IsFile(ctx context.Context, path string) (bool, error) {
	node, err := s.Stat(ctx, path)
	if ok, err := found(err); !ok {
		return false, err
	}
	return !node.IsDir(), nil
}

// Stat returns the node at path.
func (s *Session) Stat(ctx context.Context, path string) (Node, error) {
	return s.store.Lookup(ctx, s.Resolve(path))
}

// ListDirectory returns the direct children of path, or of the current
// directory when path is empty.
func (s *Session) ListDirectory(ctx context.Context, path string) ([]Entry, error) {
	dir := s.CurrentDirectory()
	if path != "" {
		dir = s.Resolve(path)
	}
	return s.store.List(ctx, dir)
}

// ReadFile returns the content of the file at path. Directories are reported
// as ErrNotFound.
func (s *Session) ReadFile(ctx context.Context, path string) (string, error) {
	p := s.Resolve(path)
	node, err := s.store.Lookup(ctx, p)
	if err != nil {
		return "", relabel("read", err)
	}
	if node.IsDir() {
		return "", pathError("read", p, ErrNotFound)
	}
	return node.Content, nil
}

// WriteFile replaces the content of the file at path, or appends to it when
// appendContent is set, creating the file if needed.
func (s *Session) WriteFile(ctx context.Context, path, content string, appendContent bool) error {
	return s.store.WriteFile(ctx, s.Resolve(path), content, appendContent)
}

// CreateDirectory creates a single directory whose parent must exist.
func (s *Session) CreateDirectory(ctx context.Context, path string) error {
	return s.store.CreateDirectory(ctx, s.Resolve(path))
}

// CreateDirectoryAll creates a directory along with any missing parents.
func (s *Session) CreateDirectoryAll(ctx context.Context, path string) error {
	return s.store.CreateDirectoryAll(ctx, s.Resolve(path))
}

// Remove deletes a file or an empty directory. A non-empty directory is
// ErrNotEmpty even when it holds the cursor. The empty current directory
// and the empty root are ErrBusy.
func (s *Session) Remove(ctx context.Context, path string) error {
	return s.store.remove(ctx, s.Resolve(path), s.CurrentDirectory())
}

// Reset restores the initial tree and moves the cursor back to the root.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.cwd = Root
	s.generation = s.store.Generation()
	return nil
}

// found turns ErrNotFound into (false, nil) and keeps other errors.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// relabel rewrites the operation of a *PathError produced by a lookup.
func relabel(op string, err error) error {
	var pe *PathError
	if errors.As(err, &pe) {
		return pathError(op, pe.Path, pe.Err)
	}
	return err
}
