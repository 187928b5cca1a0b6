// Package cli implements the cobra-based command line for lintgate.
//
// lintgate has a single root command and no subcommands: invoking the
// binary runs the gate (gate.go). This file defines the root command,
// global flags, and the translation of errors into exit codes.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// Global flag variables bound to persistent flags on the root command.
var (
	// jsonOutput switches the summary line and error output to JSON.
	jsonOutput bool

	// verbose enables [verbose] trace lines on stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the root cobra command, which is the gate itself.
func NewRootCommand() *cobra.Command {
	flags := &gateFlags{}

	rootCmd := &cobra.Command{
		Use:   "lintgate",
		Short: "Run the backend linter and fail the build on violations",
		Long: `lintgate enters the backend directory, activates its isolated tool
environment, runs the linter over the whole tree, and exits 0 when the
tree is clean or 1 when the linter reports anything.

Linter output is passed through unchanged. Settings come from built-in
defaults (backend/, venv/, flake8 .), an optional .lintgate.yaml or
.lintgate.json, a .env file, LINTGATE_* variables, and the flags below.

Examples:
  lintgate
  lintgate --dir services/api --tool ruff
  lintgate --runtime container --image python-lint:3.12
  lintgate --preserve-exit-code --json`,

		Args: cobra.NoArgs,

		// Errors are formatted by Execute (text or JSON).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGate(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output summary and errors in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.register(rootCmd)

	return rootCmd
}

// Execute runs the root command and exits the process with the gate's
// exit code. SIGINT and SIGTERM cancel the command context, which kills
// a running linter.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// Lint failures were already reported by the summary line.
	if err != nil && !errors.Is(err, model.ErrLintFailed) {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
		} else {
			printError(err.Error(), nil)
		}
	}
	os.Exit(int(ExitCodeFor(err)))
}

// ExitCodeFor maps an error returned by the root command to a process
// exit code. CLIError values carry their own code; anything else is 1.
func ExitCodeFor(err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitFailure
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// stderr even in JSON mode: stdout belongs to the linter.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
