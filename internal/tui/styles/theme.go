package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	App    lipgloss.Style
	Title  lipgloss.Style
	Prompt lipgloss.Style
	Path   lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
	Help   lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Prompt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")),
	Path: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F5F")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")).
		Italic(true),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
}
