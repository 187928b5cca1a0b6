// Package model defines the domain types and value objects for the
// lintgate CLI.
//
// This package contains pure data structures with no external dependencies:
// the runtime kind (Runtime), the captured linter outcome (LintResult),
// exit codes (ExitCode), and a custom error type (CLIError) that carries an
// exit code plus an error kind for errors.Is matching.
package model
