// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"
)

const (
	bannerArt = `
 ########  #####  ####### ###    ## ##    ## ##    ##  #####
    ##    ##   ## ##      ####   ## ##    ## ##    ## ##   ##
    ##    ####### ####### ## ##  ## ##    ## ##    ## #######
    ##    ##   ##      ## ##  ## ## ##    ##  ##  ##  ##   ##
    ##    ##   ## ####### ##   ####  ######    ####   ##   ##
`
	bannerTagline = "     Tasnuva TOS (Othoy Edition)- Terminal Operating System"
	bannerRule    = "     ======================================================"

	msgShutdownRequested = "System shutdown requested..."
	msgShutdownComplete  = "Tasnuva TOS shutdown complete."
)

// bootSteps are printed in order while the system comes up.
var bootSteps = []string{
	"Booting Tasnuva TOS...",
	"Mounting Virtual File System...",
	"Loading Core System...",
}

// banner returns the ASCII art header.
func banner() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(strings.TrimPrefix(bannerArt, "\n")))
	b.WriteString("\n\n")
	b.WriteString(bannerTagline + "\n")
	b.WriteString(SubtitleStyle.Render(bannerRule) + "\n\n")
	return b.String()
}

// printBoot writes the boot messages. mount runs between the filesystem
// step and the core step so a database failure is reported in place.
func printBoot(w io.Writer, mount func() error) error {
	fmt.Fprintln(w, bootSteps[0])
	fmt.Fprintln(w, bootSteps[1])
	if err := mount(); err != nil {
		return err
	}
	fmt.Fprintln(w, bootSteps[2])
	fmt.Fprintln(w, SuccessStyle.Render("System ready!"))
	fmt.Fprintf(w, "Type %s for available commands or %s to quit.\n\n", CmdStyle.Render("'help'"), CmdStyle.Render("'exit'"))
	return nil
}
