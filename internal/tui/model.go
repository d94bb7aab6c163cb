// Package tui is a terminal front-end for the organizer. It drives the same
// bridge as the desktop window, with the directory picker rendered in the
// terminal.
package tui

import (
	"context"
	"os"
	"strings"

	"moviesort/internal/bridge"
	"moviesort/internal/tui/components"
	"moviesort/internal/tui/messages"
	"moviesort/internal/tui/styles"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Select      key.Binding
	Quit        key.Binding
	PickCurrent key.Binding
	Cancel      key.Binding
}

var keys = keyMap{
	Select: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("enter", "select directory"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	PickCurrent: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "choose this directory"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "cancel"),
	),
}

// Model is the bubbletea model. It only talks to the organizer through
// its Bridge.
type Model struct {
	bridge bridge.Bridge
	title  string

	picker   filepicker.Model
	startDir string
	picking  bool
	reply    chan<- messages.PickResult

	status   *components.StatusBar
	selected string
	err      error
}

// New creates the model. Pickers open in startDir, or the working
// directory when startDir is empty.
func New(b bridge.Bridge, title, startDir string) *Model {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		startDir = wd
	}

	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.ShowHidden = false

	return &Model{
		bridge:   b,
		title:    title,
		picker:   fp,
		startDir: startDir,
		status:   components.NewStatusBar(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			return m.handlePickerKey(msg)
		}
		return m.handleKey(msg)

	case messages.OpenPickerMsg:
		if m.picking {
			msg.Reply <- messages.PickResult{}
			return m, nil
		}
		m.picking = true
		m.reply = msg.Reply
		m.picker.CurrentDirectory = m.startDir
		return m, m.picker.Init()

	case messages.StatusMsg:
		if msg.Busy {
			return m, m.status.Show(msg.Text)
		}
		m.status.Hide()
		return m, nil

	case messages.SelectionMsg:
		m.err = msg.Err
		if msg.Err == nil && !msg.Selection.Cancelled {
			m.selected = msg.Selection.Path
		}
		return m, nil

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.status.Update(msg))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Select):
		m.err = nil
		return m, m.requestSelection()
	}
	return m, nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.finishPick(messages.PickResult{})
		return m, tea.Quit
	case key.Matches(msg, keys.Cancel):
		m.finishPick(messages.PickResult{})
		return m, nil
	case key.Matches(msg, keys.PickCurrent):
		m.finishPick(messages.PickResult{Path: m.picker.CurrentDirectory, OK: true})
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.finishPick(messages.PickResult{Path: path, OK: true})
		return m, nil
	}
	return m, cmd
}

func (m *Model) finishPick(r messages.PickResult) {
	if m.reply != nil {
		m.reply <- r
	}
	m.reply = nil
	m.picking = false
}

func (m *Model) requestSelection() tea.Cmd {
	b := m.bridge
	return func() tea.Msg {
		sel, err := b.SelectDirectory(context.Background())
		return messages.SelectionMsg{Selection: sel, Err: err}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var sections []string
	sections = append(sections, styles.Theme.Title.Render(m.title))

	if m.picking {
		sections = append(sections,
			styles.Theme.Prompt.Render("Choose a directory: "+m.picker.CurrentDirectory),
			m.picker.View(),
			helpLine(keys.PickCurrent, keys.Cancel),
		)
	} else {
		sections = append(sections, styles.Theme.Prompt.Render("Press enter to select a directory to organize."))
		if m.selected != "" {
			sections = append(sections, "Selected: "+styles.Theme.Path.Render(m.selected))
		}
		if m.err != nil {
			sections = append(sections, styles.Theme.Error.Render("Error: "+m.err.Error()))
		}
		sections = append(sections, helpLine(keys.Select, keys.Quit))
	}

	if s := m.status.View(); s != "" {
		sections = append(sections, s)
	}
	return styles.Theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.Theme.Help.Render(strings.Join(parts, " • "))
}
