// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateTree checks that nodes form a complete namespace: canonical unique
// paths, a root directory, every other node under an existing directory and
// no content on directories. It returns the nodes ordered by path so that
// parents come before their children.
func ValidateTree(nodes []Node) ([]Node, error) {
	ordered := slices.Clone(nodes)
	slices.SortFunc(ordered, func(a, b Node) int { return strings.Compare(a.Path, b.Path) })

	kinds := make(map[string]Kind, len(ordered))
	for _, n := range ordered {
		if !IsCanonical(n.Path) {
			return nil, fmt.Errorf("%w: %q is not a canonical path", ErrInvalidTree, n.Path)
		}
		if err := n.Kind.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTree, n.Path, err)
		}
		if _, dup := kinds[n.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidTree, n.Path)
		}
		if n.Kind == KindDirectory && n.Content != "" {
			return nil, fmt.Errorf("%w: directory %q has content", ErrInvalidTree, n.Path)
		}
		if n.Path == Root {
			if n.Kind != KindDirectory {
				return nil, fmt.Errorf("%w: root must be a directory", ErrInvalidTree)
			}
		} else if kinds[Parent(n.Path)] != KindDirectory {
			return nil, fmt.Errorf("%w: parent of %q is not a directory", ErrInvalidTree, n.Path)
		}
		kinds[n.Path] = n.Kind
	}

	if _, ok := kinds[Root]; !ok {
		return nil, fmt.Errorf("%w: missing root directory", ErrInvalidTree)
	}
	return ordered, nil
}
