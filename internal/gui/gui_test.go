//go:build !nogui

package gui

import (
	"context"
	"sync"
	"testing"
	"time"

	"moviesort/internal/bridge"
	"moviesort/internal/config"
	"moviesort/internal/errors"
	"moviesort/internal/lifecycle"
	"moviesort/internal/task"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func direct(fn func()) { fn() }

type stubSelector struct {
	selection bridge.Selection
	calls     int
}

func (s *stubSelector) HandleSelectDirectory(ctx context.Context) (bridge.Selection, error) {
	s.calls++
	return s.selection, nil
}

type fakeLauncher struct {
	mu      sync.Mutex
	handles []*task.Handle
}

func (l *fakeLauncher) Launch(ctx context.Context, dir string) *task.Handle {
	h := task.NewHandle(dir)
	l.mu.Lock()
	l.handles = append(l.handles, h)
	l.mu.Unlock()
	return h
}

func (l *fakeLauncher) finishAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, h := range l.handles {
		h.Resolve(task.Result{Stdout: "done"})
	}
}

type selectionResult struct {
	sel bridge.Selection
	err error
}

func watchSelections(tr *Trigger) <-chan selectionResult {
	out := make(chan selectionResult, 1)
	tr.selected = func(sel bridge.Selection, err error) {
		out <- selectionResult{sel: sel, err: err}
	}
	return out
}

func TestTriggerStatusFollowsNotifications(t *testing.T) {
	test.NewTempApp(t)
	ch := bridge.NewChannel()
	tr := NewTrigger(ch, direct)
	test.NewTempWindow(t, tr.Content())

	assert.False(t, tr.status.Visible(), "status is hidden initially")

	ch.Notify(bridge.Busy("Processing..."))
	assert.True(t, tr.status.Visible())
	assert.Equal(t, "Processing...", tr.status.Text)

	ch.Notify(bridge.Idle())
	assert.False(t, tr.status.Visible())
}

func TestTriggerStatusRepeatedNotifications(t *testing.T) {
	test.NewTempApp(t)
	ch := bridge.NewChannel()
	tr := NewTrigger(ch, direct)
	test.NewTempWindow(t, tr.Content())

	ch.Notify(bridge.Idle())
	assert.False(t, tr.status.Visible(), "idle while hidden is a no-op")

	ch.Notify(bridge.Busy("A"))
	ch.Notify(bridge.Busy("B"))
	assert.True(t, tr.status.Visible())
	assert.Equal(t, "B", tr.status.Text, "latest busy text wins")

	ch.Notify(bridge.Idle())
	ch.Notify(bridge.Idle())
	assert.False(t, tr.status.Visible())
}

func TestTriggerTapRequestsSelection(t *testing.T) {
	test.NewTempApp(t)
	sel := &stubSelector{selection: bridge.Selection{Path: "/movies/new"}}
	ch := bridge.NewChannel()
	ch.Bind(sel)
	tr := NewTrigger(ch, direct)
	results := watchSelections(tr)

	test.Tap(tr.button)

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, "/movies/new", r.sel.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for selection")
	}
	assert.Equal(t, 1, sel.calls)
}

func TestTriggerTapBeforeReady(t *testing.T) {
	test.NewTempApp(t)
	tr := NewTrigger(bridge.NewChannel(), direct)
	results := watchSelections(tr)

	test.Tap(tr.button)

	select {
	case r := <-results:
		assert.True(t, errors.IsNotReady(r.err))
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for selection")
	}
}

type blockingSelector struct {
	entered chan struct{}
}

func (s *blockingSelector) HandleSelectDirectory(ctx context.Context) (bridge.Selection, error) {
	close(s.entered)
	<-ctx.Done()
	return bridge.Selection{}, ctx.Err()
}

func TestTriggerCloseAbandonsSelection(t *testing.T) {
	test.NewTempApp(t)
	sel := &blockingSelector{entered: make(chan struct{})}
	ch := bridge.NewChannel()
	ch.Bind(sel)
	tr := NewTrigger(ch, direct)
	results := watchSelections(tr)

	test.Tap(tr.button)
	select {
	case <-sel.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for the selection request")
	}

	tr.Close()
	select {
	case r := <-results:
		assert.ErrorIs(t, r.err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("selection still blocked after Close")
	}
}

func TestIsGUIAvailable(t *testing.T) {
	assert.True(t, IsGUIAvailable())
}

func newTestApp(t *testing.T, launcher *fakeLauncher) *App {
	t.Helper()
	cfg := config.NewTestConfig()
	return newApp(test.NewTempApp(t), cfg, launcher, direct, lifecycle.WithPlatform("darwin"))
}

func TestAppOrganizeShowsAndHidesStatus(t *testing.T) {
	launcher := &fakeLauncher{}
	a := newTestApp(t, launcher)
	require.NoError(t, a.life.Start())
	require.NotNil(t, a.window)

	h := a.Organize(context.Background(), "/movies/new")
	require.NotNil(t, h)
	assert.True(t, a.trigger.status.Visible())
	assert.Equal(t, config.DefaultBusyText, a.trigger.status.Text)

	launcher.finishAll()
	a.current.Wait()
	assert.False(t, a.trigger.status.Visible())
}

func TestAppWindowCloseAndReactivate(t *testing.T) {
	launcher := &fakeLauncher{}
	a := newTestApp(t, launcher)
	require.NoError(t, a.life.Start())
	first := a.window
	tr := a.trigger

	first.Close()
	assert.ErrorIs(t, tr.ctx.Err(), context.Canceled, "closing the window abandons its dialog")
	assert.Equal(t, 0, a.life.Windows())
	assert.Nil(t, a.current)

	// Runs started with no window still complete
	h := a.Organize(context.Background(), "/movies/new")
	launcher.finishAll()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for headless run")
	}

	require.NoError(t, a.life.Activate())
	assert.Equal(t, 1, a.life.Windows())
	require.NotNil(t, a.window)
	assert.NotSame(t, first, a.window)
}

func TestClosedWindowDropsLateIdle(t *testing.T) {
	launcher := &fakeLauncher{}
	a := newTestApp(t, launcher)
	require.NoError(t, a.life.Start())
	orch := a.current
	tr := a.trigger

	a.Organize(context.Background(), "/movies/new")
	a.window.Close()

	assert.NotPanics(t, func() {
		launcher.finishAll()
		orch.Wait()
	})
	assert.True(t, tr.status.Visible(), "closed window receives no further updates")
}
