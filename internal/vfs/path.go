// SPDX-License-Identifier: MPL-2.0

package vfs

import "strings"

const (
	// Root is the canonical path of the root directory.
	Root = "/"

	// rootName is the name recorded for the root node, which has no last segment.
	rootName = "root"
)

// Normalize resolves raw against base and returns the canonical absolute path.
//
// A raw path not starting with "/" is relative to base. Empty and "." segments
// are dropped, ".." removes the previous segment and is silently ignored at
// the root. The result has no trailing slash unless it is the root itself.
// Normalize never touches the store.
func Normalize(raw, base string) string {
	if !strings.HasPrefix(raw, "/") {
		if base == "" || base == Root {
			raw = Root + raw
		} else {
			raw = base + "/" + raw
		}
	}

	segments := make([]string, 0, strings.Count(raw, "/"))
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return Root
	}
	return Root + strings.Join(segments, "/")
}

// IsCanonical reports whether p is already in canonical form.
func IsCanonical(p string) bool {
	return strings.HasPrefix(p, "/") && Normalize(p, Root) == p
}

// Parent returns the parent of the canonical path p. The parent of the root
// is the root.
func Parent(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return Root
	}
	return p[:i]
}

// Base returns the last segment of the canonical path p, or "root" for the
// root directory.
func Base(p string) string {
	if p == Root {
		return rootName
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// childPrefix is the prefix shared by every descendant of dir.
func childPrefix(dir string) string {
	if dir == Root {
		return Root
	}
	return dir + "/"
}

// isWithin reports whether p is dir itself or one of its descendants.
func isWithin(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, childPrefix(dir))
}
