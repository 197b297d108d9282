// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include directory changes (MustChdir), fixture files
// (MustWriteFile), resource cleanup (MustClose, MustStop) and a manually
// driven FakeClock for deterministic node timestamps.
package testutil
