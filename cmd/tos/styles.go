// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Phosphor palette of the boot screen and CLI messages.
const (
	colorPhosphor = lipgloss.Color("#33FF66")
	colorDim      = lipgloss.Color("#5F7A68")
	colorOK       = lipgloss.Color("#22C55E")
	colorFault    = lipgloss.Color("#F43F5E")
	colorAmber    = lipgloss.Color("#FFB000")
	colorCyan     = lipgloss.Color("#22D3EE")
)

var (
	// TitleStyle is for headers and the boot banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPhosphor)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// SuccessStyle marks completed actions.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorOK)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFault)

	// WarningStyle marks confirmations and cautions.
	WarningStyle = lipgloss.NewStyle().
			Foreground(colorAmber)

	// CmdStyle is for command names and config keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(colorCyan)
)
