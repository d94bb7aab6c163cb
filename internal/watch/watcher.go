package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"moviesort/internal/config"
	"moviesort/internal/errors"
	"moviesort/internal/log"
	"moviesort/internal/task"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Organizer starts an organize cycle for a directory.
type Organizer interface {
	Organize(ctx context.Context, dir string) *task.Handle
}

// OrganizerFunc adapts a function to Organizer.
type OrganizerFunc func(ctx context.Context, dir string) *task.Handle

// Organize calls f(ctx, dir).
func (f OrganizerFunc) Organize(ctx context.Context, dir string) *task.Handle {
	return f(ctx, dir)
}

// Watcher monitors directories and organizes them once new movie files have
// stopped arriving for the debounce period.
type Watcher struct {
	organizer Organizer
	patterns  []glob.Glob
	debounce  time.Duration

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex       sync.Mutex
	directories []string
	timers      map[string]*time.Timer
	// inflight holds directories whose organizer is still running. Events
	// for them are dropped, since the organizer itself moves files around.
	inflight map[string]bool
	running  bool
	stopChan chan struct{}
	ctx      context.Context
	// fires tracks fire calls between their running check and the return
	// of Organize. Stop waits on it.
	fires sync.WaitGroup
}

// New creates a watcher. Patterns are matched against file base names,
// case-insensitively.
func New(organizer Organizer, patterns []string, debounce time.Duration) (*Watcher, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid watch pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		organizer: organizer,
		patterns:  compiled,
		debounce:  debounce,
		fsWatcher: fsWatcher,
		timers:    make(map[string]*time.Timer),
		inflight:  make(map[string]bool),
	}, nil
}

// FromConfig builds a watcher for the watch section of cfg and registers
// its directories.
func FromConfig(cfg *config.Config, organizer Organizer) (*Watcher, error) {
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := New(organizer, cfg.Watch.Patterns, debounce)
	if err != nil {
		return nil, err
	}
	for _, dir := range cfg.Watch.Directories {
		if err := w.AddDirectory(dir); err != nil {
			_ = w.fsWatcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// Matches reports whether a file name triggers an organize run.
func (w *Watcher) Matches(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, g := range w.patterns {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewPathError("watch directory not found", dir, errors.PathNotFound, err)
		}
		return errors.NewPathError("error accessing directory", dir, errors.InvalidPath, err)
	}
	if !info.IsDir() {
		return errors.NewPathError("not a directory", dir, errors.InvalidPath, nil)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("error resolving directory: %w", err)
	}

	if err := w.fsWatcher.Add(abs); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", abs, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == abs {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, abs)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", abs)).Info("Watching directory")
	return nil
}

// Directories returns the list of directories being watched
func (w *Watcher) Directories() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return append([]string(nil), w.directories...)
}

// Start begins processing events. Organize runs use ctx.
func (w *Watcher) Start(ctx context.Context) error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.ctx = ctx
	stop := w.stopChan
	w.mutex.Unlock()

	go w.loop(ctx, stop)
	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Error("fsnotify watcher error")

		case <-ctx.Done():
			w.Stop()
			return

		case <-stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !w.Matches(event.Name) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("file", event.Name)).WithError(err).Error("Error stating file")
		}
		return
	}
	if info.IsDir() {
		return
	}
	w.schedule(filepath.Dir(event.Name))
}

// schedule (re)arms the debounce timer for dir.
func (w *Watcher) schedule(dir string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running || w.inflight[dir] {
		return
	}
	if t, ok := w.timers[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() { w.fire(dir) })
}

func (w *Watcher) fire(dir string) {
	w.mutex.Lock()
	delete(w.timers, dir)
	if !w.running || w.inflight[dir] {
		w.mutex.Unlock()
		return
	}
	w.inflight[dir] = true
	w.fires.Add(1)
	defer w.fires.Done()
	ctx := w.ctx
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("New movies detected, organizing")
	h := w.organizer.Organize(ctx, dir)
	go func() {
		<-h.Done()
		w.mutex.Lock()
		delete(w.inflight, dir)
		w.mutex.Unlock()
	}()
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.running
}

// Stop halts the watcher and cancels pending runs. Runs already started
// continue. Stop returns once every run it did not cancel has been handed
// to the organizer.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	close(w.stopChan)
	for dir, t := range w.timers {
		t.Stop()
		delete(w.timers, dir)
	}
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithError(err).Error("Error closing fsnotify watcher")
	}
	w.running = false
	w.mutex.Unlock()

	w.fires.Wait()
	log.Debug("Watcher stopped")
}
