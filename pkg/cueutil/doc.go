// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against embedded schemas.
//
// Callers embed a schema containing a definition (such as #Config), and
// hand the user's file to Validate or DecodeMap. Errors carry the file name
// and a JSON-style path to the offending field:
//
//	config.cue: shell.banner: conflicting values true and "yes" (mismatched types bool and string)
package cueutil
