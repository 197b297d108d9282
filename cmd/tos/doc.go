// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the tos command line: the interactive shell and the
// host-side commands around it (exec, reset, fs, serve, config).
package cmd
