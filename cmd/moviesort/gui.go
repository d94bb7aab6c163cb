package main

import (
	"moviesort/internal/gui"
	"moviesort/internal/instance"
	"moviesort/internal/log"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the gui command
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the organizer window",
		Long:  `Open the desktop window. This is the default when no command is given.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI()
		},
	}
}

// runGUI launches the GUI directly
func runGUI() error {
	lockPath, err := instance.DefaultPath()
	if err != nil {
		return err
	}
	lock, err := instance.Acquire(lockPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.LogWithError(err).Warn("Failed to release instance lock")
		}
	}()

	return gui.Run(cfg, newRunner(cfg))
}
