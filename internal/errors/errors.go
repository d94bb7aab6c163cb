// Package errors provides standardized error handling for moviesort.
// It defines the error kinds raised by the bridge, the orchestrator and the
// external organizing task, plus helpers for creating and inspecting them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Path error kinds
	InvalidPath
	PathNotFound
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Bridge error kinds
	NotReady
	// Dialog error kinds
	DialogFailed
	// Task error kinds
	TaskLaunchFailed
	TaskFailed
	// Instance error kinds
	AlreadyRunning
)

// Common error constants for frequently occurring errors
var (
	ErrNotReady       = NewBridgeError("bridge not ready", "", NotReady, nil)
	ErrInvalidConfig  = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrAlreadyRunning = &ApplicationError{msg: "another instance is already running", kind: AlreadyRunning}
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Is matches errors of the same kind, so sentinel values like ErrNotReady
// compare equal to any error raised with that kind.
func (e *ApplicationError) Is(target error) bool {
	var other interface{ Kind() ErrorKind }
	if !errors.As(target, &other) {
		return false
	}
	return e.kind != Unknown && e.kind == other.Kind()
}

// PathError represents errors related to a directory given by the user
type PathError struct {
	ApplicationError
	path string
}

// NewPathError creates a new path error
func NewPathError(msg string, path string, kind ErrorKind, err error) *PathError {
	return &PathError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the path error message
func (e *PathError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
	}
	return fmt.Sprintf("%s: %s", e.msg, e.path)
}

// Path returns the path associated with the error
func (e *PathError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// BridgeError represents misuse of the UI bridge.
type BridgeError struct {
	ApplicationError
	operation string
}

// NewBridgeError creates a new bridge error
func NewBridgeError(msg string, operation string, kind ErrorKind, err error) *BridgeError {
	return &BridgeError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		operation: operation,
	}
}

// Error returns the bridge error message
func (e *BridgeError) Error() string {
	if e.operation != "" {
		return fmt.Sprintf("%s: %s", e.msg, e.operation)
	}
	return e.ApplicationError.Error()
}

// Operation returns the bridge operation that failed
func (e *BridgeError) Operation() string {
	return e.operation
}

// TaskError represents a failed run of the external organizing task
type TaskError struct {
	ApplicationError
	dir      string
	exitCode int
	stderr   string
}

// NewTaskError creates a new task error
func NewTaskError(msg string, dir string, exitCode int, stderr string, kind ErrorKind, err error) *TaskError {
	return &TaskError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		dir:      dir,
		exitCode: exitCode,
		stderr:   stderr,
	}
}

// Error returns the task error message
func (e *TaskError) Error() string {
	base := e.msg
	if e.dir != "" {
		base = fmt.Sprintf("%s: %s", base, e.dir)
	}
	if e.kind == TaskFailed {
		base = fmt.Sprintf("%s (exit %d)", base, e.exitCode)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", base, e.err)
	}
	return base
}

// Dir returns the directory the task was launched for
func (e *TaskError) Dir() string {
	return e.dir
}

// ExitCode returns the task's exit code, -1 if it never ran
func (e *TaskError) ExitCode() int {
	return e.exitCode
}

// Stderr returns the captured standard error of the task
func (e *TaskError) Stderr() string {
	return e.stderr
}

// WrapKind wraps an error and tags it with a kind
func WrapKind(err error, kind ErrorKind, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// KindOf returns the kind of the first typed error in err's chain
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

// IsNotReady checks if the error reports a bridge used before it was bound
func IsNotReady(err error) bool {
	var bridgeErr *BridgeError
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Kind() == NotReady
	}
	return false
}

// IsTaskFailed checks if the error is an external task launch or exit failure
func IsTaskFailed(err error) bool {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr.Kind() == TaskFailed || taskErr.Kind() == TaskLaunchFailed
	}
	return false
}

// IsPathNotFound checks if the error is a missing directory error
func IsPathNotFound(err error) bool {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return pathErr.Kind() == PathNotFound
	}
	return false
}

// IsConfigNotFound checks if the error reports a missing config file
func IsConfigNotFound(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == ConfigNotFound
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
