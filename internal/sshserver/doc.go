// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the Tasnuva TOS shell over SSH with wish.
//
// Every SSH session gets its own vfs.Session over one shared store, so users
// have independent working directories but see the same files. Sessions with
// a command (ssh host 'ls /') run that line and exit with status 1 when a
// command failed. Sessions without one get the interactive shell.
//
// Only password authentication is accepted.
package sshserver
