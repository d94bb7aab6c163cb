//go:build !nogui

package gui

import (
	"context"
	"sync"

	"moviesort/internal/bridge"
	"moviesort/internal/config"
	"moviesort/internal/lifecycle"
	"moviesort/internal/log"
	"moviesort/internal/orchestrator"
	"moviesort/internal/task"
	"moviesort/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appID = "io.github.moviesort"

// App is the GUI application
type App struct {
	fyneApp  fyne.App
	cfg      *config.Config
	launcher orchestrator.Launcher
	life     *lifecycle.Lifecycle
	do       func(func())

	mu      sync.Mutex
	window  fyne.Window
	trigger *Trigger
	current *orchestrator.Orchestrator
	// headless serves watcher runs while no window is open
	headless *orchestrator.Orchestrator
	watcher  *watch.Watcher
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// Run starts the desktop shell and blocks until it quits.
func Run(cfg *config.Config, launcher orchestrator.Launcher) error {
	return NewApp(cfg, launcher).Run()
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, launcher orchestrator.Launcher) *App {
	return newApp(app.NewWithID(appID), cfg, launcher, fyne.Do)
}

func newApp(fyneApp fyne.App, cfg *config.Config, launcher orchestrator.Launcher, do func(func()), opts ...lifecycle.Option) *App {
	a := &App{
		fyneApp:  fyneApp,
		cfg:      cfg,
		launcher: launcher,
		do:       do,
	}
	a.headless = orchestrator.New(nil, launcher, bridge.Discard,
		orchestrator.WithBusyText(cfg.Status.BusyText))
	a.life = lifecycle.New(fyneShell{a}, opts...)

	fyneApp.Lifecycle().SetOnEnteredForeground(func() {
		if err := a.life.Activate(); err != nil {
			log.LogWithError(err).Error("Failed to activate window")
		}
	})
	a.setupSystemTray()
	return a
}

// setupSystemTray adds a tray menu that reopens the window
func (a *App) setupSystemTray() {
	deskApp, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}
	menu := fyne.NewMenu(a.cfg.Window.Title,
		fyne.NewMenuItem("Show", func() {
			if err := a.life.Activate(); err != nil {
				log.LogWithError(err).Error("Failed to activate window")
			}
		}),
	)
	deskApp.SetSystemTrayMenu(menu)
}

// newWindow builds the window and its private bridge channel.
func (a *App) newWindow() *fyneWindow {
	w := a.fyneApp.NewWindow(a.cfg.Window.Title)
	w.Resize(fyne.NewSize(float32(a.cfg.Window.Width), float32(a.cfg.Window.Height)))

	ch := bridge.NewChannel()
	orch := orchestrator.New(
		&folderDialog{window: w, do: a.do},
		a.launcher,
		ch,
		orchestrator.WithBusyText(a.cfg.Status.BusyText),
	)
	ch.Bind(orch)

	trigger := NewTrigger(ch, a.do)
	w.SetContent(trigger.Content())

	a.mu.Lock()
	a.window = w
	a.trigger = trigger
	a.current = orch
	a.mu.Unlock()

	return &fyneWindow{Window: w, app: a, channel: ch, orch: orch, trigger: trigger}
}

func (a *App) detach(orch *orchestrator.Orchestrator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == orch {
		a.current = nil
		a.window = nil
		a.trigger = nil
	}
}

// Organize starts a cycle for dir through the open window, or without UI
// notifications when no window is open.
func (a *App) Organize(ctx context.Context, dir string) *task.Handle {
	a.mu.Lock()
	orch := a.current
	a.mu.Unlock()
	if orch == nil {
		orch = a.headless
	}
	return orch.Organize(ctx, dir)
}

// Run shows the window and runs the event loop.
func (a *App) Run() error {
	if err := a.life.Start(); err != nil {
		return err
	}

	if a.cfg.Watch.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := a.startWatcher(ctx); err != nil {
			log.LogWithError(err).Error("Failed to start watcher")
		}
	}

	a.fyneApp.Run()
	a.stopWatcher()
	return nil
}

func (a *App) startWatcher(ctx context.Context) error {
	w, err := watch.FromConfig(a.cfg, a)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

func (a *App) stopWatcher() {
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

// fyneShell adapts the fyne app to lifecycle.Shell.
type fyneShell struct {
	app *App
}

func (s fyneShell) NewWindow() (lifecycle.Window, error) {
	return s.app.newWindow(), nil
}

func (s fyneShell) Quit() {
	s.app.fyneApp.Quit()
}

// fyneWindow abandons any open dialog and tears down the window's bridge
// channel before reporting the close to the lifecycle.
type fyneWindow struct {
	fyne.Window
	app     *App
	channel *bridge.Channel
	orch    *orchestrator.Orchestrator
	trigger *Trigger
}

func (w *fyneWindow) SetOnClosed(fn func()) {
	w.Window.SetOnClosed(func() {
		w.trigger.Close()
		w.channel.Close()
		w.app.detach(w.orch)
		fn()
	})
}
