package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"moviesort/internal/config"
	"moviesort/internal/errors"
	"moviesort/internal/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	exitCodes map[string]int
}

func (l *fakeLauncher) Launch(ctx context.Context, dir string) *task.Handle {
	h := task.NewHandle(dir)
	res := task.Result{Stdout: "organized"}
	if code := l.exitCodes[filepath.Base(dir)]; code != 0 {
		res.ExitCode = code
		res.Err = errors.NewTaskError("organizer failed", dir, code, "boom", errors.TaskFailed, nil)
	}
	h.Resolve(res)
	return h
}

func movieDirs(t *testing.T, names ...string) []string {
	t.Helper()
	root := t.TempDir()
	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dir := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(dir, 0o755))
		dirs = append(dirs, dir)
	}
	return dirs
}

func TestRunOrganizePrintsTable(t *testing.T) {
	cfg = config.NewTestConfig()
	var out bytes.Buffer
	dirs := movieDirs(t, "a", "b")

	err := runOrganize(context.Background(), &out, &fakeLauncher{}, dirs)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, config.DefaultBusyText)
	assert.Contains(t, s, dirs[0])
	assert.Contains(t, s, dirs[1])
	assert.Contains(t, s, "Directory")
	assert.Contains(t, s, "Duration")
	assert.Contains(t, s, "ok")
	assert.NotContains(t, s, "boom")
}

func TestRunOrganizeReportsFailures(t *testing.T) {
	cfg = config.NewTestConfig()
	var out bytes.Buffer

	launcher := &fakeLauncher{exitCodes: map[string]int{"bad": 2}}
	dirs := movieDirs(t, "good", "bad")
	err := runOrganize(context.Background(), &out, launcher, dirs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out.String(), "failed")
	assert.Contains(t, out.String(), dirs[1]+":\nboom")
}

func TestRunOrganizeRejectsBadDirectories(t *testing.T) {
	cfg = config.NewTestConfig()
	var out bytes.Buffer
	launcher := &countingLauncher{}

	dirs := movieDirs(t, "good")
	missing := filepath.Join(filepath.Dir(dirs[0]), "missing")
	err := runOrganize(context.Background(), &out, launcher, []string{dirs[0], missing})
	require.Error(t, err)
	assert.True(t, errors.IsPathNotFound(err))
	assert.Contains(t, err.Error(), missing)

	file := filepath.Join(dirs[0], "Heat.1995.mkv")
	require.NoError(t, os.WriteFile(file, []byte("movie"), 0o644))
	err = runOrganize(context.Background(), &out, launcher, []string{file})
	require.Error(t, err)
	assert.Equal(t, errors.InvalidPath, errors.KindOf(err))

	assert.Zero(t, launcher.calls, "nothing launches when any directory is invalid")
	assert.Empty(t, out.String())
}

type countingLauncher struct {
	calls int
}

func (l *countingLauncher) Launch(ctx context.Context, dir string) *task.Handle {
	l.calls++
	h := task.NewHandle(dir)
	h.Resolve(task.Result{})
	return h
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "01234567", shortID("0123456789"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, debug, logJSON, cfg = "", false, false, nil
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "config", "init")
	assert.Error(t, err, "refuses to overwrite")

	_, err = execute(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "interpreter: python")
	assert.Contains(t, out, "busy_text: Processing...")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: -1\n"), 0o644))

	_, err := execute(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestMissingConfigFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")

	_, err := execute(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.True(t, errors.IsConfigNotFound(err))
	assert.Contains(t, err.Error(), path)

	_, err = execute(t, "--config", path, "config", "init")
	require.NoError(t, err, "init creates the missing file")
	_, err = execute(t, "--config", path, "config", "show")
	assert.NoError(t, err)
}

func TestWatchRequiresDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no watch directories")

	_, err = execute(t, "--config", path, "watch", "--dir", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsPathNotFound(err))
}

func TestResolveScript(t *testing.T) {
	c := config.NewTestConfig()
	c.Organizer.Script = "does/not/exist.py"
	assert.Equal(t, "does/not/exist.py", resolveScript(c))

	abs := filepath.Join(t.TempDir(), "organize.py")
	require.NoError(t, os.WriteFile(abs, nil, 0o644))
	c.Organizer.Script = abs
	assert.Equal(t, abs, resolveScript(c))
}
