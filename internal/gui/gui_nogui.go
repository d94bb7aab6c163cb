//go:build nogui
// +build nogui

package gui

import (
	"fmt"

	"moviesort/internal/config"
	"moviesort/internal/log"
	"moviesort/internal/orchestrator"
)

// Run is a stub implementation for builds with GUI disabled
func Run(cfg *config.Config, launcher orchestrator.Launcher) error {
	log.Warn("GUI is disabled in this build. Use the tui or organize commands.")
	return fmt.Errorf("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
