// Package task runs the external movie-organizing script as a subprocess and
// exposes its completion as a handle that can be awaited.
package task

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"sync"
	"time"

	"moviesort/internal/errors"

	"github.com/google/uuid"
)

var commandContext = exec.CommandContext

// Result captures the outcome of one organizer run.
type Result struct {
	ID       string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
	Started  time.Time
	Finished time.Time
}

// Failed reports whether the task could not start or exited non-zero.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Duration is the wall time between start and exit.
func (r Result) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Handle is a running (or finished) organizer task.
type Handle struct {
	id     string
	dir    string
	done   chan struct{}
	once   sync.Once
	result Result
}

// ID returns the task identifier used in log lines.
func (h *Handle) ID() string { return h.id }

// Dir returns the directory passed to the task.
func (h *Handle) Dir() string { return h.dir }

// Done is closed once the task has exited and its Result is available.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the task exits and returns its Result.
func (h *Handle) Wait() Result {
	<-h.done
	return h.result
}

func (h *Handle) finish(r Result) {
	h.once.Do(func() {
		h.result = r
		close(h.done)
	})
}

// NewHandle returns a pending handle for launchers that do not start a
// subprocess themselves. Complete it with Resolve.
func NewHandle(dir string) *Handle {
	return &Handle{
		id:   uuid.NewString(),
		dir:  dir,
		done: make(chan struct{}),
	}
}

// Resolve completes a handle created with NewHandle. Only the first call has
// an effect.
func (h *Handle) Resolve(r Result) {
	r.ID = h.id
	if r.Dir == "" {
		r.Dir = h.dir
	}
	h.finish(r)
}

// Option configures a Runner.
type Option func(*Runner)

// WithInterpreter overrides the executable that runs the script.
func WithInterpreter(interpreter string) Option {
	return func(r *Runner) {
		if interpreter != "" {
			r.interpreter = interpreter
		}
	}
}

// WithScript overrides the script path.
func WithScript(script string) Option {
	return func(r *Runner) {
		if script != "" {
			r.script = script
		}
	}
}

// WithEnv adds environment variables to every task.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.env = append(r.env, k+"="+env[k])
		}
	}
}

// Runner launches the organizer script.
type Runner struct {
	interpreter string
	script      string
	env         []string
}

// NewRunner constructs a Runner using defaults.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		interpreter: "python",
		script:      "python/organize_movies.py",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Args returns the argument vector passed to the interpreter. The directory
// is always a single element.
func (r *Runner) Args(dir string) []string {
	return []string{r.script, dir}
}

// CommandLine renders the invocation as `<executable> <script> "<dir>"`.
func (r *Runner) CommandLine(dir string) string {
	return fmt.Sprintf("%s %s %s", r.interpreter, r.script, strconv.Quote(dir))
}

// Launch starts the organizer for dir and returns immediately. A task that
// fails to start yields a handle that is already done with a failed Result.
func (r *Runner) Launch(ctx context.Context, dir string) *Handle {
	h := NewHandle(dir)

	cmd := commandContext(ctx, r.interpreter, r.Args(dir)...) //nolint:gosec
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	cmd.Env = append(cmd.Env, "PYTHONUNBUFFERED=1")
	cmd.Env = append(cmd.Env, r.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Start(); err != nil {
		h.finish(Result{
			ID:       h.id,
			Dir:      dir,
			ExitCode: -1,
			Err:      errors.NewTaskError("organizer did not start", dir, -1, "", errors.TaskLaunchFailed, err),
			Started:  started,
			Finished: time.Now(),
		})
		return h
	}

	go func() {
		waitErr := cmd.Wait()
		res := Result{
			ID:       h.id,
			Dir:      dir,
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Started:  started,
			Finished: time.Now(),
		}
		if waitErr != nil {
			res.Err = errors.NewTaskError("organizer failed", dir, res.ExitCode, res.Stderr, errors.TaskFailed, waitErr)
		}
		h.finish(res)
	}()

	return h
}
