package tui

import (
	"context"

	"moviesort/internal/bridge"
	"moviesort/internal/config"
	"moviesort/internal/orchestrator"
	"moviesort/internal/tui/messages"

	tea "github.com/charmbracelet/bubbletea"
)

// pickerDialog implements orchestrator.Dialog by asking the running
// program to show its picker.
type pickerDialog struct {
	send func(tea.Msg)
}

func (d *pickerDialog) ChooseDirectory(ctx context.Context) (string, bool, error) {
	reply := make(chan messages.PickResult, 1)
	d.send(messages.OpenPickerMsg{Reply: reply})
	select {
	case r := <-reply:
		return r.Path, r.OK, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// subscribe forwards bridge notifications into the program.
func subscribe(b bridge.Bridge, send func(tea.Msg)) {
	b.On(bridge.ShowStatus, func(text string) {
		send(messages.StatusMsg{Busy: true, Text: text})
	})
	b.On(bridge.HideStatus, func(string) {
		send(messages.StatusMsg{})
	})
}

// Run starts the terminal UI and blocks until it exits. Organizer runs
// still in flight are awaited before returning.
func Run(cfg *config.Config, launcher orchestrator.Launcher, startDir string) error {
	ch := bridge.NewChannel()
	m := New(ch, cfg.Window.Title, startDir)
	p := tea.NewProgram(m, tea.WithAltScreen())

	orch := orchestrator.New(&pickerDialog{send: p.Send}, launcher, ch,
		orchestrator.WithBusyText(cfg.Status.BusyText))
	ch.Bind(orch)
	subscribe(ch, p.Send)

	_, err := p.Run()
	ch.Close()
	orch.Wait()
	return err
}
