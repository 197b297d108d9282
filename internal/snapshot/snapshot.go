// SPDX-License-Identifier: MPL-2.0

package snapshot

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/blake3"

	"github.com/tasnuva/tos/internal/vfs"
)

const (
	// Version is the document version written by this package.
	Version = 1

	checksumPrefix = "blake3:"
)

var (
	// ErrUnsupportedVersion is returned for documents written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	// ErrChecksumMismatch is returned when file content does not match its checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

type (
	// Snapshot is the serialized form of a filesystem tree.
	Snapshot struct {
		Version   int       `json:"version" yaml:"version" toml:"version"`
		CreatedAt time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
		Nodes     []Node    `json:"nodes" yaml:"nodes" toml:"nodes"`
	}

	// Node is one serialized filesystem entry.
	Node struct {
		Path       string    `json:"path" yaml:"path" toml:"path"`
		Kind       vfs.Kind  `json:"kind" yaml:"kind" toml:"kind"`
		Content    string    `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
		Checksum   string    `json:"checksum,omitempty" yaml:"checksum,omitempty" toml:"checksum,omitempty"`
		CreatedAt  time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
		ModifiedAt time.Time `json:"modified_at" yaml:"modified_at" toml:"modified_at"`
	}

	// Store is the part of *vfs.Store used for export and import.
	Store interface {
		Snapshot(ctx context.Context) ([]vfs.Node, error)
		Restore(ctx context.Context, nodes []vfs.Node) error
	}
)

// New builds a snapshot of nodes taken at now. Files get a checksum.
func New(nodes []vfs.Node, now time.Time) *Snapshot {
	s := &Snapshot{
		Version:   Version,
		CreatedAt: now.UTC(),
		Nodes:     make([]Node, 0, len(nodes)),
	}
	for _, n := range nodes {
		node := Node{
			Path:       n.Path,
			Kind:       n.Kind,
			Content:    n.Content,
			CreatedAt:  n.CreatedAt.UTC(),
			ModifiedAt: n.ModifiedAt.UTC(),
		}
		if n.Kind == vfs.KindFile {
			node.Checksum = Checksum(n.Content)
		}
		s.Nodes = append(s.Nodes, node)
	}
	return s
}

// Checksum returns the BLAKE3 digest of content as "blake3:<hex>".
func Checksum(content string) string {
	h := blake3.New()
	_, _ = io.WriteString(h, content) // Hash writes never fail
	return checksumPrefix + hex.EncodeToString(h.Sum(nil))
}

// VFSNodes verifies the document and converts it back to vfs nodes. The
// tree shape itself is checked by vfs.ValidateTree on restore.
func (s *Snapshot) VFSNodes() ([]vfs.Node, error) {
	if s.Version < 1 || s.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	nodes := make([]vfs.Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Checksum != "" && n.Checksum != Checksum(n.Content) {
			return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, n.Path)
		}
		if n.Kind == vfs.KindFile && n.Checksum == "" && n.Content != "" {
			return nil, fmt.Errorf("%w: %s has content but no checksum", ErrChecksumMismatch, n.Path)
		}
		nodes = append(nodes, vfs.Node{
			Path:       n.Path,
			Name:       vfs.Base(n.Path),
			Kind:       n.Kind,
			Content:    n.Content,
			CreatedAt:  n.CreatedAt,
			ModifiedAt: n.ModifiedAt,
		})
	}
	return nodes, nil
}

// Export writes the current tree of store to w.
func Export(ctx context.Context, store Store, w io.Writer, format Format, now time.Time) (*Snapshot, error) {
	nodes, err := store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read filesystem: %w", err)
	}
	snap := New(nodes, now)
	if err := Encode(w, snap, format); err != nil {
		return nil, err
	}
	return snap, nil
}

// Import reads a document from r and replaces the tree of store with it.
// The store is left untouched when the document is invalid.
func Import(ctx context.Context, store Store, r io.Reader, format Format) (*Snapshot, error) {
	snap, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	nodes, err := snap.VFSNodes()
	if err != nil {
		return nil, err
	}
	if err := store.Restore(ctx, nodes); err != nil {
		return nil, fmt.Errorf("restore filesystem: %w", err)
	}
	return snap, nil
}
