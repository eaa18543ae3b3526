package tui

import "github.com/charmbracelet/lipgloss"

// Palette for the focus session screen
const (
	ColorBorder        = "#3A3F55"
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"

	ColorAccentMain   = "#0EA5E9" // clock, active borders
	ColorAccentBright = "#7DD3FC" // headers, highlights
	ColorPaused       = "#F59E0B"

	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true)

	pausedClockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPaused)).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(1, 2)
)
