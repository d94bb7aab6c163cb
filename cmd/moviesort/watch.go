package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"moviesort/internal/bridge"
	"moviesort/internal/log"
	"moviesort/internal/orchestrator"
	"moviesort/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Organize watched directories when new movies arrive",
		Long:  `Watch the configured directories and run the organizer on a directory once new movie files stop arriving.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(dirs) > 0 {
				cfg.Watch.Directories = dirs
			}
			if len(cfg.Watch.Directories) == 0 {
				return fmt.Errorf("no watch directories configured; set watch.directories or pass --dir")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx)
		},
	}

	cmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "directory to watch (repeatable, overrides config)")
	return cmd
}

func runWatch(ctx context.Context) error {
	notifier := bridge.NotifierFunc(func(n bridge.Notification) {
		log.LogWithFields(log.F("event", string(n.Event)), log.F("text", n.Payload)).Debug("Status changed")
	})
	orch := orchestrator.New(nil, newRunner(cfg), notifier, orchestrator.WithBusyText(cfg.Status.BusyText))

	w, err := watch.FromConfig(cfg, orch)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	log.Infof("Watching %d directories, press Ctrl+C to stop", len(w.Directories()))

	<-ctx.Done()
	w.Stop()
	log.Info("Waiting for running organizers to finish")
	orch.Wait()
	return nil
}
