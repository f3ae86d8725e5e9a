package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskanalyzer/internal/render"
)

// Border styles
var (
	StyleFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	StyleUnfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)

// Status line styles
var (
	StyleStatusInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	StyleStatusSuccess = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")).
				Bold(true)

	StyleStatusError = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Severity badges
var (
	StyleBadgeHigh = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("160")).
			Bold(true).
			Padding(0, 1)

	StyleBadgeMedium = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("214")).
				Bold(true).
				Padding(0, 1)

	StyleBadgeLow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("71")).
			Bold(true).
			Padding(0, 1)
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// BadgeStyle returns the badge style for a severity tier.
func BadgeStyle(tier render.Tier) lipgloss.Style {
	switch tier {
	case render.TierHigh:
		return StyleBadgeHigh
	case render.TierMedium:
		return StyleBadgeMedium
	default:
		return StyleBadgeLow
	}
}

// paneStyle picks the border for a pane.
func paneStyle(focused bool) lipgloss.Style {
	if focused {
		return StyleFocusedBorder
	}
	return StyleUnfocusedBorder
}
