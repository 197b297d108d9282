// SPDX-License-Identifier: MPL-2.0

// Package vfstest provides test helpers for building seeded vfs stores.
//
// This package is separate from testutil to avoid import cycles, since
// testutil is used by the vfs package's own tests.
//
// # Usage
//
//	import "github.com/tasnuva/tos/internal/testutil/vfstest"
//
//	sess := vfstest.NewSession(t, vfstest.WithFile("/home/notes.txt", "hi"))
package vfstest
