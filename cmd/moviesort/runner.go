package main

import (
	"os"
	"path/filepath"

	"moviesort/internal/config"
	"moviesort/internal/log"
	"moviesort/internal/task"
)

// newRunner builds the organizer launcher from cfg. A relative script path
// is resolved next to the executable, falling back to the working directory.
func newRunner(cfg *config.Config) *task.Runner {
	return task.NewRunner(
		task.WithInterpreter(cfg.Organizer.Interpreter),
		task.WithScript(resolveScript(cfg)),
		task.WithEnv(cfg.Organizer.Env),
	)
}

func resolveScript(cfg *config.Config) string {
	exe, err := os.Executable()
	if err != nil {
		return cfg.Organizer.Script
	}
	script := cfg.ScriptPath(filepath.Dir(exe))
	if _, err := os.Stat(script); err != nil {
		log.LogWithFields(log.F("script", script)).Debug("Script not found next to executable, using working directory")
		return cfg.Organizer.Script
	}
	return script
}
