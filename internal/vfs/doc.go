// SPDX-License-Identifier: MPL-2.0

// Package vfs implements the virtual filesystem of Tasnuva TOS.
//
// The namespace is a flat SQL table of path records. Every record carries its
// canonical absolute path, which is the only key: the hierarchy is implied by
// path prefixes, never by foreign keys. The Store owns the table and performs
// every existence-check-then-mutate sequence inside a single transaction, so
// several sessions may share one Store.
//
// A Session holds the current working directory (the cursor) and is the
// entry point for callers: it accepts raw, user-supplied path strings,
// normalizes them against the cursor and delegates to the Store.
//
// # Errors
//
// Expected conditions are reported as *PathError values wrapping one of the
// sentinel errors (ErrNotFound, ErrAlreadyExists, ErrNoParent, ErrNotEmpty,
// ErrRejected, ErrBusy). Driver failures wrap ErrStorage instead and must not
// be confused with a missing path:
//
//	if errors.Is(err, vfs.ErrNotFound) {
//		// report "No such file or directory"
//	}
package vfs
