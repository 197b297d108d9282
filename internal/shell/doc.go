// SPDX-License-Identifier: MPL-2.0

// Package shell provides the command layer of Tasnuva TOS.
//
// A Shell reads command lines, splits them into words with the mvdan.cc/sh
// parser, and dispatches each statement to a Command registered in a
// Registry. Commands never touch paths themselves: they hand the raw
// arguments to a FileSystem (a *vfs.Session), which resolves them against
// the current directory.
//
// # Supported Commands
//
//   - cat: Display file contents
//   - cd: Change directory
//   - clear: Clear screen
//   - echo: Display text
//   - help: Show available commands
//   - ls: List directory contents
//   - mkdir: Create directory
//   - pwd: Print working directory
//   - reset: Reset the system to its default state
//   - rm: Remove files and directories
//   - touch: Create empty file
//
// The word "exit" is handled by the shell itself and ends the session.
//
// # Command Lines
//
// Quotes, backslash escapes and $PWD, $HOME and $USER expansion follow POSIX
// shell rules. Statements may be separated by ";" or newlines. The standard
// output of any command can be redirected to a virtual file with ">" or ">>".
// Pipelines, subshells, background jobs and command substitution are
// rejected:
//
//	Tasnuva TOS:/$ echo "hello world" > /tmp/greeting.txt
//	Tasnuva TOS:/$ cat /tmp/greeting.txt
//	hello world
//
// # Error Format
//
// Every failure is reported on one line prefixed with the command name and
// never ends the session:
//
//	cd: /nowhere: No such directory
//	rm: cannot remove '/home': Directory not empty
package shell
