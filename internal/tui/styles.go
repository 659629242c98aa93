// Package tui provides the interactive report preview for toggl2slack.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for the preview.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorActive    = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the preview.
var (
	// StyleTitle is used for the header title.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleSubtitle is used for the period and counters next to the title.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleUser is used for user names in the stats tab.
	StyleUser = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleHours is used for hour values.
	StyleHours = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	// StyleTab is used for inactive tab labels.
	StyleTab = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	// StyleActiveTab is used for the selected tab label.
	StyleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			Underline(true).
			Padding(0, 1)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// StyleContentBox frames the active tab's body.
var StyleContentBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// ProgressBar creates a progress bar string.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}
	if width < 0 {
		width = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	return filledStyle.Render(strings.Repeat("█", filled)) + // Full block
		emptyStyle.Render(strings.Repeat("░", empty)) // Light shade
}

// HelpBar renders the key bindings line.
func HelpBar() string {
	var parts []string
	for _, b := range keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, StyleHelpKey.Render(h.Key)+" "+StyleHelpDesc.Render(h.Desc))
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
