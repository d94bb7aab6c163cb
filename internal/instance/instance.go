// Package instance keeps a single copy of the desktop shell running per user.
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"moviesort/internal/config"
	"moviesort/internal/errors"
	"moviesort/internal/log"

	"github.com/gofrs/flock"
)

const lockName = "moviesort.lock"

// Lock is a held instance lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// DefaultPath returns the lock file location inside the config directory.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, lockName), nil
}

// Acquire takes the lock at path without blocking. It fails with
// errors.ErrAlreadyRunning when another process holds it.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", errors.ErrAlreadyRunning, path)
	}

	log.LogWithFields(log.F("lock", path)).Debug("Instance lock acquired")
	return &Lock{path: path, lock: l}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
