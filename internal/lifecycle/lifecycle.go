// Package lifecycle owns the application window and decides what happens
// when it closes: quit, or stay resident until the app is reactivated.
package lifecycle

import (
	"runtime"
	"sync"

	"moviesort/internal/log"
)

// Window is the part of a native window the lifecycle needs.
type Window interface {
	Show()
	// SetOnClosed registers fn to run after the window closed.
	SetOnClosed(fn func())
}

// Shell creates windows and ends the process.
type Shell interface {
	NewWindow() (Window, error)
	Quit()
}

// Resident reports whether the platform keeps apps running with no windows.
func Resident(platform string) bool {
	return platform == "darwin"
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithPlatform overrides runtime.GOOS.
func WithPlatform(platform string) Option {
	return func(l *Lifecycle) {
		l.platform = platform
	}
}

// Lifecycle tracks the single application window.
type Lifecycle struct {
	shell    Shell
	platform string

	mu      sync.Mutex
	window  Window
	windows int
	quit    bool
}

// New creates a Lifecycle for shell.
func New(shell Shell, opts ...Option) *Lifecycle {
	l := &Lifecycle{shell: shell, platform: runtime.GOOS}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start creates and shows the first window.
func (l *Lifecycle) Start() error {
	l.mu.Lock()
	if l.windows > 0 {
		l.mu.Unlock()
		return nil
	}
	w, err := l.createWindowLocked()
	l.mu.Unlock()
	if err != nil {
		return err
	}
	w.Show()
	return nil
}

func (l *Lifecycle) createWindowLocked() (Window, error) {
	w, err := l.shell.NewWindow()
	if err != nil {
		return nil, err
	}
	l.window = w
	l.windows++
	w.SetOnClosed(l.WindowClosed)
	log.LogWithFields(log.F("platform", l.platform)).Debug("Window created")
	return w, nil
}

// WindowClosed records a closed window. With no windows left the process
// quits unless the platform keeps apps resident.
func (l *Lifecycle) WindowClosed() {
	l.mu.Lock()
	if l.windows > 0 {
		l.windows--
	}
	if l.windows > 0 {
		l.mu.Unlock()
		return
	}
	l.window = nil
	if Resident(l.platform) {
		l.mu.Unlock()
		log.Debug("Last window closed, staying resident")
		return
	}
	l.quit = true
	l.mu.Unlock()

	log.Debug("Last window closed, quitting")
	l.shell.Quit()
}

// Activate recreates the window when none is open, otherwise brings the
// existing one forward.
func (l *Lifecycle) Activate() error {
	l.mu.Lock()
	if l.quit {
		l.mu.Unlock()
		return nil
	}
	w := l.window
	if l.windows == 0 {
		var err error
		if w, err = l.createWindowLocked(); err != nil {
			l.mu.Unlock()
			return err
		}
	}
	l.mu.Unlock()
	w.Show()
	return nil
}

// Windows returns the number of open windows.
func (l *Lifecycle) Windows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.windows
}
