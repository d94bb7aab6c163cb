package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"moviesort/internal/bridge"
	"moviesort/internal/errors"
	"moviesort/internal/log"
	"moviesort/internal/orchestrator"
	"moviesort/internal/task"

	"github.com/spf13/cobra"
)

// NewOrganizeCmd creates the organize command
func NewOrganizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "organize <directory>...",
		Short: "Run the organizer on directories without a window",
		Long:  `Run the organizer script once for each directory and print a summary. Directories are organized concurrently.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd.Context(), cmd.OutOrStdout(), newRunner(cfg), args)
		},
	}
}

func runOrganize(ctx context.Context, out io.Writer, launcher orchestrator.Launcher, dirs []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	notifier := bridge.NotifierFunc(func(n bridge.Notification) {
		if n.Event == bridge.ShowStatus {
			fmt.Fprintln(out, n.Payload)
		}
	})
	orch := orchestrator.New(nil, launcher, notifier, orchestrator.WithBusyText(cfg.Status.BusyText))

	resolved := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := resolveDirectory(dir)
		if err != nil {
			return err
		}
		resolved = append(resolved, abs)
	}

	handles := make([]*task.Handle, 0, len(resolved))
	for _, dir := range resolved {
		handles = append(handles, orch.Organize(ctx, dir))
	}

	results := make([]task.Result, 0, len(handles))
	for _, h := range handles {
		results = append(results, h.Wait())
	}
	orch.Wait()

	fmt.Fprintln(out, renderResults(results))

	failed := 0
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		failed++
		var taskErr *errors.TaskError
		if errors.As(r.Err, &taskErr) && taskErr.Stderr() != "" {
			fmt.Fprintf(out, "%s:\n%s\n", taskErr.Dir(), taskErr.Stderr())
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d organizer runs failed", failed, len(results))
	}
	log.Debugf("Organized %d directories", len(results))
	return nil
}

// resolveDirectory returns the absolute form of dir after checking that it
// names an existing directory.
func resolveDirectory(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.NewPathError("error resolving directory", dir, errors.InvalidPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewPathError("directory not found", abs, errors.PathNotFound, err)
		}
		return "", errors.NewPathError("error accessing directory", abs, errors.InvalidPath, err)
	}
	if !info.IsDir() {
		return "", errors.NewPathError("not a directory", abs, errors.InvalidPath, nil)
	}
	return abs, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
