package ui

import "github.com/charmbracelet/lipgloss"

// Spotify brand green for titles, red for failures.
const (
	colorAccent = "#1DB954"
	colorError  = "#FF0000"
)

var styles = struct {
	title lipgloss.Style
	err   lipgloss.Style
}{
	title: lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true).MarginBottom(1),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)).Bold(true),
}
