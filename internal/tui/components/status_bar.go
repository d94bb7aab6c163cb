package components

import (
	"moviesort/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar shows the busy indicator while an organizer runs.
type StatusBar struct {
	text    string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Status

	return &StatusBar{
		style:   styles.Theme.Status,
		spinner: s,
	}
}

// Show displays text with a spinner. The returned command starts the
// spinner.
func (s *StatusBar) Show(text string) tea.Cmd {
	s.text = text
	if s.loading {
		return nil
	}
	s.loading = true
	return s.spinner.Tick
}

// Hide clears the status bar.
func (s *StatusBar) Hide() {
	s.text = ""
	s.loading = false
}

// Visible reports whether the status bar is showing.
func (s *StatusBar) Visible() bool {
	return s.loading
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if !s.loading {
		return ""
	}
	return s.style.Render(s.spinner.View() + " " + s.text)
}
