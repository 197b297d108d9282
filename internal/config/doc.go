// SPDX-License-Identifier: MPL-2.0

// Package config loads tos settings.
//
// Values come from, in increasing order of precedence: built-in defaults, a
// config.cue file validated against an embedded CUE schema, a .env file and
// TOS_* environment variables (for example TOS_SSH_PORT for ssh.port).
package config
