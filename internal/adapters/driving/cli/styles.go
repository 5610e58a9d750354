package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Colour palette shared by command output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

// styles contains pre-configured lipgloss styles for command output.
var styles = struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
	Label:   lipgloss.NewStyle().Bold(true).Width(18),
	Muted:   lipgloss.NewStyle().Foreground(colourMuted),
	Success: lipgloss.NewStyle().Foreground(colourSuccess),
	Warning: lipgloss.NewStyle().Foreground(colourWarning),
	Error:   lipgloss.NewStyle().Foreground(colourError),
}

// field renders "label  value" with an aligned label.
func field(label, value string) string {
	return styles.Label.Render(label) + value
}
