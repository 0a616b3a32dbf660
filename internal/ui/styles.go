// Package ui holds the terminal styles and text blocks printed by the CLI.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	PrimaryColor   = lipgloss.Color("205") // Pink
	SecondaryColor = lipgloss.Color("241") // Gray
	SuccessColor   = lipgloss.Color("82")  // Green
	ErrorColor     = lipgloss.Color("196") // Red
	WarningColor   = lipgloss.Color("214") // Orange (skipped notes)
	MutedColor     = lipgloss.Color("245") // Dimmed text
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Badge styles for note results.
var (
	BadgeOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(SuccessColor).
		Padding(0, 1)

	BadgeSkip = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(WarningColor).
			Padding(0, 1)

	BadgeFail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(ErrorColor).
			Padding(0, 1)
)

// Result kinds shown by Badge.
const (
	KindRendered = "rendered"
	KindSkipped  = "skipped"
	KindFailed   = "failed"
)

// Badge returns a styled badge for a note result kind.
func Badge(kind string) string {
	switch kind {
	case KindRendered:
		return BadgeOK.Render("OK")
	case KindSkipped:
		return BadgeSkip.Render("SKIP")
	case KindFailed:
		return BadgeFail.Render("FAIL")
	default:
		return BadgeFail.Render("???")
	}
}
