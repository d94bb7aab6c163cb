package main

import (
	"fmt"
	"os"
	"path/filepath"

	"moviesort/internal/config"
	"moviesort/internal/log"
	"moviesort/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal UI command
func NewTUICmd() *cobra.Command {
	var startDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Select a directory from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(startDir)
		},
	}

	cmd.Flags().StringVarP(&startDir, "dir", "d", "", "directory the picker starts in (defaults to the current directory)")
	return cmd
}

func runTUI(startDir string) error {
	// The screen belongs to the UI, so logs go to a file.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	var opts []log.Option
	opts = append(opts, log.WithOutput(logFile))
	if logJSON || cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)

	return tui.Run(cfg, newRunner(cfg), startDir)
}

func openLogFile() (*os.File, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "moviesort.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
