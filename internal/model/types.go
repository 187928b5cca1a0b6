// Package model defines the domain types for the lintgate CLI.
//
// The only state the gate carries is the outcome of a single linter
// invocation (LintResult), which lives for one process run. Everything
// else here exists to turn failures into process exit codes.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Runtime identifies the kind of isolated tool environment the linter
// runs in.
type Runtime string

const (
	// RuntimeVenv runs the linter from a Python virtual environment. The
	// environment's executables directory is put in front of PATH for the
	// linter process, the same effect as sourcing bin/activate.
	RuntimeVenv Runtime = "venv"

	// RuntimeContainer runs the linter inside a container image with the
	// target directory bind-mounted as the working directory.
	RuntimeContainer Runtime = "container"
)

// String returns the string representation of Runtime.
func (r Runtime) String() string {
	return string(r)
}

// IsValid checks whether the Runtime value is one of the supported kinds.
func (r Runtime) IsValid() bool {
	switch r {
	case RuntimeVenv, RuntimeContainer:
		return true
	default:
		return false
	}
}

// ParseRuntime converts a string to a Runtime. Matching is case-insensitive.
func ParseRuntime(s string) (Runtime, error) {
	rt := Runtime(strings.ToLower(strings.TrimSpace(s)))
	if !rt.IsValid() {
		return "", fmt.Errorf("invalid runtime: %q (valid: venv, container)", s)
	}
	return rt, nil
}

// LintResult is the captured outcome of one linter invocation.
//
// ExitCode is the linter's own exit status, unaltered. It is never
// rewritten after capture; normalization happens only when the result is
// turned into the gate's exit code.
type LintResult struct {
	// Tool is the linter executable name as configured (e.g. "flake8").
	Tool string `json:"tool"`

	// Args are the arguments the linter was invoked with.
	Args []string `json:"args"`

	// Dir is the absolute directory the linter ran in.
	Dir string `json:"dir"`

	// ExitCode is the linter's process exit status.
	ExitCode int `json:"exitCode"`

	// Duration is the wall-clock time between spawn and reap.
	Duration time.Duration `json:"-"`
}

// Passed reports whether the linter exited with status 0.
func (r *LintResult) Passed() bool {
	return r.ExitCode == 0
}

// CommandLine returns the invocation as a single display string.
func (r *LintResult) CommandLine() string {
	if len(r.Args) == 0 {
		return r.Tool
	}
	return r.Tool + " " + strings.Join(r.Args, " ")
}

// ExitCode is the process exit status of lintgate itself.
type ExitCode int

const (
	// ExitSuccess indicates the lint passed.
	ExitSuccess ExitCode = 0

	// ExitFailure is the normalized failure signal. It covers lint
	// violations and every fatal step before the linter runs.
	ExitFailure ExitCode = 1

	// ExitToolNotFound is the status a shell reports when a command cannot
	// be found. It is recorded as the linter's exit code when the tool
	// executable is missing from the activated environment.
	ExitToolNotFound ExitCode = 127
)

// Error kinds. CLIError values carry one of these as Kind so callers can
// branch with errors.Is regardless of the underlying cause.
var (
	// ErrDirectoryNotFound means the configured target directory is missing.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrEnvironmentNotFound means the isolated tool environment is missing
	// or unusable.
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrToolNotFound means the linter executable could not be started.
	ErrToolNotFound = errors.New("lint tool not found")

	// ErrLintFailed means the linter ran and exited with a nonzero status.
	ErrLintFailed = errors.New("lint failed")

	// ErrInvalidConfig means configuration could not be loaded or validated.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Kind is one of the Err* sentinels above, or nil.
	Kind error

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// Is matches the error kind, so errors.Is(err, ErrLintFailed) works even
// when the underlying cause is an *exec.ExitError.
func (e *CLIError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// NewCLIError creates a new CLIError of the given kind.
func NewCLIError(code ExitCode, kind error, message string) *CLIError {
	return &CLIError{Code: code, Kind: kind, Message: message}
}

// WrapCLIError creates a new CLIError of the given kind that wraps an
// existing error.
func WrapCLIError(code ExitCode, kind error, message string, err error) *CLIError {
	return &CLIError{Code: code, Kind: kind, Message: message, Err: err}
}
