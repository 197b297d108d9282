// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
	"time"
)

const (
	// KindFile marks a node holding text content.
	KindFile Kind = "file"
	// KindDirectory marks a node that can hold children.
	KindDirectory Kind = "directory"
)

// ErrInvalidKind is returned when a Kind value is not recognized.
var ErrInvalidKind = errors.New("invalid node kind")

type (
	// Kind is the type of a node, persisted verbatim in the kind column.
	Kind string

	// Node is a single filesystem entry as stored in the nodes table.
	Node struct {
		// Path is the canonical absolute path and the unique key of the node.
		Path string
		// Name is the last path segment ("root" for the root directory).
		Name string
		// Kind tells files and directories apart.
		Kind Kind
		// Content is the file payload. Always empty for directories.
		Content string
		// CreatedAt is set once when the node is inserted.
		CreatedAt time.Time
		// ModifiedAt changes whenever the content is written.
		ModifiedAt time.Time
	}

	// Entry is one row of a directory listing.
	Entry struct {
		Name string
		Kind Kind
	}
)

// String returns the persisted form of the kind.
func (k Kind) String() string { return string(k) }

// Validate returns an error wrapping ErrInvalidKind for unknown kinds.
func (k Kind) Validate() error {
	switch k {
	case KindFile, KindDirectory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
}

// IsDir reports whether the node is a directory.
func (n Node) IsDir() bool { return n.Kind == KindDirectory }

// Size returns the content length in bytes.
func (n Node) Size() int64 { return int64(len(n.Content)) }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Kind == KindDirectory }
