// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Lipgloss styles and the styled output sink for the chat REPL.

package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ollamachat/internal/ui/styles"
)

func init() {
	// Set the color profile once based on TTY detection and NO_COLOR.
	// Lipgloss degrades to plain text when the profile is Ascii.
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// STYLES
// =============================================================================

var (
	// User input prompt
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// Assistant reply prefix
	replyStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// Welcome banner
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// Secondary info lines
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Confirmations and command results
	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// Warnings
	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// Errors
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// Hints below errors
	hintStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// Thinking animation
	thinkingStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// Section headers (status, exit summary)
	summaryHeaderStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)
)

// =============================================================================
// OUTPUT SINK
// =============================================================================

// terminalPrinter renders command output with the shared styles. Plain and
// success lines go to stdout, errors and hints to stderr.
type terminalPrinter struct{}

func (terminalPrinter) Print(text string) {
	fmt.Println(text)
}

func (terminalPrinter) Success(text string) {
	fmt.Println(commandStyle.Render(text))
}

func (terminalPrinter) Error(text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("[Error]"), text)
}

func (terminalPrinter) Hint(text string) {
	fmt.Fprintln(os.Stderr, hintStyle.Render("  "+text))
}
