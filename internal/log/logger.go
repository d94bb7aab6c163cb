// Package log is the application logger. It wraps logrus with the small
// field-oriented API used across moviesort.
package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"moviesort/internal/errors"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool

	mu     sync.RWMutex
	logger = NewLogger()
)

// Field is a single structured key/value attached to a log line
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
}

// Option configures a Logger
type Option func(*options)

// WithOutput sets the destination writer (default os.Stdout)
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithJSON switches the logger to JSON lines
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// Logger writes leveled, structured log lines
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger. Text output is coloured only when the
// destination is a terminal.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	base.SetOutput(o.out)
	base.SetLevel(logrus.DebugLevel)
	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   !isTerminal(o.out),
		})
	}

	return &Logger{entry: logrus.NewEntry(base)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// With returns a child logger carrying the given fields
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data)}
}

// WithError returns a child logger describing err
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

func (l *Logger) Debug(args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debug(args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

func (l *Logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{F("error", err.Error())}

	var taskErr *errors.TaskError
	var configErr *errors.ConfigError
	var bridgeErr *errors.BridgeError
	var pathErr *errors.PathError
	switch {
	case errors.As(err, &taskErr):
		fields = append(fields, F("dir", taskErr.Dir()), F("exit_code", taskErr.ExitCode()))
	case errors.As(err, &configErr):
		fields = append(fields, F("param", configErr.Param()))
	case errors.As(err, &bridgeErr):
		fields = append(fields, F("operation", bridgeErr.Operation()))
	case errors.As(err, &pathErr):
		fields = append(fields, F("path", pathErr.Path()))
	}

	var kinded interface{ Kind() errors.ErrorKind }
	if errors.As(err, &kinded) {
		fields = append(fields, F("error_kind", int(kinded.Kind())))
	}
	return fields
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Configure replaces the package logger
func Configure(opts ...Option) {
	l := NewLogger(opts...)
	mu.Lock()
	logger = l
	mu.Unlock()
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Default returns the package logger
func Default() *Logger {
	return current()
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return current().With(fields...)
}

// LogWithError returns the package logger with err's details attached
func LogWithError(err error) *Logger {
	return current().WithError(err)
}

func Debug(args ...interface{}) {
	current().Debug(args...)
}

// Debugf logs a formatted message when debug output is on
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

func Info(args ...interface{}) {
	current().Info(args...)
}

func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warn logs a warning message
func Warn(args ...interface{}) {
	current().Warn(args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Error logs an error message
func Error(args ...interface{}) {
	current().Error(args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}
