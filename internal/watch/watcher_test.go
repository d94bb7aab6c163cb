package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"moviesort/internal/config"
	"moviesort/internal/errors"
	"moviesort/internal/task"
	"moviesort/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOrganizer struct {
	mu      sync.Mutex
	dirs    []string
	handles []*task.Handle
	calls   chan string
}

func newRecordingOrganizer() *recordingOrganizer {
	return &recordingOrganizer{calls: make(chan string, 16)}
}

func (r *recordingOrganizer) Organize(ctx context.Context, dir string) *task.Handle {
	h := task.NewHandle(dir)
	r.mu.Lock()
	r.dirs = append(r.dirs, dir)
	r.handles = append(r.handles, h)
	r.mu.Unlock()
	r.calls <- dir
	return h
}

func (r *recordingOrganizer) finishAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.handles {
		h.Resolve(task.Result{})
	}
}

func (r *recordingOrganizer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirs)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

func TestMatches(t *testing.T) {
	w, err := New(newRecordingOrganizer(), []string{"*.{mkv,mp4}"}, time.Second)
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	assert.True(t, w.Matches("/movies/Heat (1995).mkv"))
	assert.True(t, w.Matches("ALIEN.MP4"))
	assert.False(t, w.Matches("notes.txt"))
	assert.False(t, w.Matches("movie.mkv.part"))
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(newRecordingOrganizer(), []string{"[unclosed"}, time.Second)
	assert.Error(t, err)
}

func TestAddDirectoryRequiresDirectory(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file.mkv")
	writeFile(t, file)

	w, err := New(newRecordingOrganizer(), []string{"*.mkv"}, time.Second)
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	err = w.AddDirectory(file)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
	assert.False(t, errors.IsPathNotFound(err))

	missing := filepath.Join(tempDir, "missing")
	err = w.AddDirectory(missing)
	require.Error(t, err)
	assert.True(t, errors.IsPathNotFound(err))
	assert.Contains(t, err.Error(), missing)

	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.AddDirectory(tempDir))
	assert.Len(t, w.Directories(), 1)
}

func TestWatcherOrganizesAfterDebounce(t *testing.T) {
	tempDir := t.TempDir()
	org := newRecordingOrganizer()

	w, err := New(org, []string{"*.mkv"}, 100*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()), "second start fails")

	// Allow fsnotify to settle
	time.Sleep(50 * time.Millisecond)

	writeFile(t, filepath.Join(tempDir, "ignored.txt"))
	writeFile(t, filepath.Join(tempDir, "one.mkv"))
	writeFile(t, filepath.Join(tempDir, "two.mkv"))

	select {
	case dir := <-org.calls:
		abs, _ := filepath.Abs(tempDir)
		assert.Equal(t, abs, dir)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for organize run")
	}

	// Burst collapses into a single run
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, org.count())

	// Files created while the run is in flight are ignored
	writeFile(t, filepath.Join(tempDir, "three.mkv"))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, org.count())

	org.finishAll()
	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(tempDir, "four.mkv"))
	select {
	case <-org.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for second organize run")
	}
	org.finishAll()
}

func TestStopCancelsPendingRuns(t *testing.T) {
	tempDir := t.TempDir()
	org := newRecordingOrganizer()

	w, err := New(org, []string{"*.mkv"}, 200*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)

	writeFile(t, filepath.Join(tempDir, "one.mkv"))
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	assert.False(t, w.IsRunning())

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 0, org.count())
}

func TestStopWaitsForOrganizeInProgress(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	returned := make(chan struct{})
	org := OrganizerFunc(func(ctx context.Context, dir string) *task.Handle {
		close(entered)
		<-release
		h := task.NewHandle(dir)
		h.Resolve(task.Result{})
		return h
	})

	w, err := New(org, []string{"*.mkv"}, time.Second)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	go func() {
		w.fire("/movies")
		close(returned)
	}()
	<-entered

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while Organize was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for Stop")
	}
	<-returned
	assert.False(t, w.IsRunning())

	// A fire that starts after Stop never reaches the organizer.
	w.fire("/movies")
}

func TestContextCancelStopsWatcher(t *testing.T) {
	w, err := New(newRecordingOrganizer(), []string{"*.mkv"}, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !w.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestFromConfig(t *testing.T) {
	tempDir := t.TempDir()
	cfg := config.NewTestConfig()
	cfg.Watch.Directories = []string{tempDir}

	w, err := FromConfig(cfg, newRecordingOrganizer())
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	assert.Len(t, w.Directories(), 1)
	assert.Equal(t, 50*time.Millisecond, w.debounce)
	assert.True(t, w.Matches("movie.mkv"))

	cfg.Watch.Directories = []string{filepath.Join(tempDir, "missing")}
	_, err = FromConfig(cfg, newRecordingOrganizer())
	assert.Error(t, err)
}

func TestExistingFilesDoNotTrigger(t *testing.T) {
	tempDir := t.TempDir()
	testutils.CreateMovieFiles(t, tempDir)
	org := newRecordingOrganizer()

	w, err := New(org, []string{"*.{mkv,mp4,avi}"}, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, org.count())
}
