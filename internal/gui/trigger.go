//go:build !nogui

package gui

import (
	"context"

	"moviesort/internal/bridge"
	"moviesort/internal/errors"
	"moviesort/internal/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Trigger is the window content: a single button that starts a selection
// and a status line driven by bridge notifications. It holds nothing but
// the Bridge.
type Trigger struct {
	bridge bridge.Bridge
	do     func(func())

	// ctx bounds selection requests. Close cancels it so an open dialog
	// does not outlive the window.
	ctx    context.Context
	cancel context.CancelFunc

	button  *widget.Button
	status  *widget.Label
	content fyne.CanvasObject

	// selected, when set, receives the outcome of every selection request
	selected func(bridge.Selection, error)
}

// NewTrigger builds the trigger UI on b. do schedules widget updates on the
// UI goroutine; pass fyne.Do in production.
func NewTrigger(b bridge.Bridge, do func(func())) *Trigger {
	t := &Trigger{bridge: b, do: do}
	t.ctx, t.cancel = context.WithCancel(context.Background())

	t.status = widget.NewLabel("")
	t.status.Alignment = fyne.TextAlignCenter
	t.status.TextStyle = fyne.TextStyle{Italic: true}
	t.status.Hide()

	t.button = widget.NewButton("Select Directory", t.requestSelection)
	t.button.Importance = widget.HighImportance

	b.On(bridge.ShowStatus, func(text string) {
		t.do(func() {
			t.status.SetText(text)
			t.status.Show()
		})
	})
	b.On(bridge.HideStatus, func(string) {
		t.do(func() {
			t.status.Hide()
		})
	})

	t.content = container.NewBorder(nil, t.status, nil, nil,
		container.NewCenter(t.button),
	)
	return t
}

// Content returns the canvas object to place in the window.
func (t *Trigger) Content() fyne.CanvasObject {
	return t.content
}

// Close abandons pending selection requests.
func (t *Trigger) Close() {
	t.cancel()
}

func (t *Trigger) requestSelection() {
	go func() {
		sel, err := t.bridge.SelectDirectory(t.ctx)
		switch {
		case errors.Is(err, context.Canceled):
			log.Debug("Directory selection abandoned, window closed")
		case err != nil:
			log.LogWithError(err).Error("Directory selection failed")
		case sel.Cancelled:
			log.Debug("No directory selected")
		default:
			log.Infof("Selected directory: %s", sel.Path)
		}
		if t.selected != nil {
			t.selected(sel, err)
		}
	}()
}
