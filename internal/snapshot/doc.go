// SPDX-License-Identifier: MPL-2.0

// Package snapshot exports and imports the whole virtual filesystem as a
// portable document.
//
// A snapshot lists every node with its content and timestamps. File content
// carries a BLAKE3 checksum ("blake3:<hex>") that is verified on import, so a
// hand-edited document is rejected unless its checksums were updated too.
// Documents can be written as JSON, YAML or TOML.
package snapshot
