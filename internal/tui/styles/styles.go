// Package styles defines shared lipgloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	successColor   = lipgloss.Color("#87AF87") // Muted sage for completed work
	warningColor   = lipgloss.Color("#D7AF5F") // Muted amber for in-progress work
	errorColor     = lipgloss.Color("#AF5F5F") // Muted terracotta for errors

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// InProgressStyle for todos currently being researched
	InProgressStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	// CompletedStyle for finished todos
	CompletedStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// CancelledStyle for abandoned todos
	CancelledStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(secondaryColor)

	// BoxStyle for panel borders
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)
