// Package orchestrator runs the privileged half of a selection cycle: it
// opens the directory dialog, announces the busy state, launches the external
// organizer and announces idle once the organizer exits.
package orchestrator

import (
	"context"
	"strings"
	"sync"

	"moviesort/internal/bridge"
	"moviesort/internal/config"
	"moviesort/internal/errors"
	"moviesort/internal/log"
	"moviesort/internal/task"
)

// Dialog asks the user for a directory. ok is false when the user cancelled.
type Dialog interface {
	ChooseDirectory(ctx context.Context) (path string, ok bool, err error)
}

// Launcher starts the external organizer for a directory.
type Launcher interface {
	Launch(ctx context.Context, dir string) *task.Handle
}

// commandLiner is implemented by launchers that can describe the command
// they run, such as *task.Runner.
type commandLiner interface {
	CommandLine(dir string) string
}

var _ commandLiner = (*task.Runner)(nil)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBusyText sets the status text sent while a task runs.
func WithBusyText(text string) Option {
	return func(o *Orchestrator) {
		if text != "" {
			o.busyText = text
		}
	}
}

// WithLogger sets the logger used for task output.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// OnTaskDone registers a callback run after a task's idle notification.
func OnTaskDone(fn func(task.Result)) Option {
	return func(o *Orchestrator) {
		o.onDone = fn
	}
}

// Orchestrator implements bridge.Selector.
type Orchestrator struct {
	dialog   Dialog
	launcher Launcher
	notifier bridge.Notifier
	busyText string
	logger   *log.Logger
	onDone   func(task.Result)

	// dialogSlot holds a token while a dialog is open.
	dialogSlot chan struct{}
	tasks      sync.WaitGroup
}

var _ bridge.Selector = (*Orchestrator)(nil)

// New constructs an Orchestrator.
func New(dialog Dialog, launcher Launcher, notifier bridge.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		dialog:     dialog,
		launcher:   launcher,
		notifier:   notifier,
		busyText:   config.DefaultBusyText,
		logger:     log.Default(),
		dialogSlot: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleSelectDirectory opens the dialog and, when a directory is chosen,
// starts an organize cycle for it. It returns as soon as the task has been
// launched.
func (o *Orchestrator) HandleSelectDirectory(ctx context.Context) (bridge.Selection, error) {
	select {
	case o.dialogSlot <- struct{}{}:
	case <-ctx.Done():
		return bridge.Selection{}, ctx.Err()
	}
	path, ok, err := o.dialog.ChooseDirectory(ctx)
	<-o.dialogSlot

	if err != nil {
		return bridge.Selection{}, errors.WrapKind(err, errors.DialogFailed, "directory dialog failed")
	}
	if !ok || path == "" {
		o.logger.Debug("Directory selection cancelled")
		return bridge.Selection{Cancelled: true}, nil
	}

	o.Organize(ctx, path)
	return bridge.Selection{Path: path}, nil
}

// Organize announces busy and launches the organizer for dir.
func (o *Orchestrator) Organize(ctx context.Context, dir string) *task.Handle {
	o.notifier.Notify(bridge.Busy(o.busyText))
	return o.LaunchExternalTask(ctx, dir)
}

// LaunchExternalTask starts the organizer and arranges for exactly one idle
// notification when it exits, whatever the outcome. The task outlives ctx's
// cancellation.
func (o *Orchestrator) LaunchExternalTask(ctx context.Context, dir string) *task.Handle {
	h := o.launcher.Launch(context.WithoutCancel(ctx), dir)
	fields := []log.Field{log.F("task_id", h.ID()), log.F("dir", dir)}
	if cl, ok := o.launcher.(commandLiner); ok {
		fields = append(fields, log.F("command", cl.CommandLine(dir)))
	}
	o.logger.With(fields...).Info("Organizer started")

	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		res := h.Wait()
		o.record(res)
		o.notifier.Notify(bridge.Idle())
		if o.onDone != nil {
			o.onDone(res)
		}
	}()
	return h
}

func (o *Orchestrator) record(res task.Result) {
	l := o.logger.With(
		log.F("task_id", res.ID),
		log.F("dir", res.Dir),
		log.F("exit_code", res.ExitCode),
		log.F("duration", res.Duration().String()),
	)
	if res.Failed() {
		l.WithError(res.Err).Errorf("Error executing organizer: %s", strings.TrimSpace(res.Stderr))
		return
	}
	l.Infof("Organizer output: %s", strings.TrimSpace(res.Stdout))
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		l.Warnf("Organizer stderr: %s", stderr)
	}
}

// Wait blocks until every launched task has exited and its idle
// notification has been sent.
func (o *Orchestrator) Wait() {
	o.tasks.Wait()
}
