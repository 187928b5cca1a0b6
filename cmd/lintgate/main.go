// Package main is the entry point for the lintgate CLI.
//
// lintgate runs the backend linter inside its isolated tool environment
// and turns the result into a pass/fail exit code for CI. All behavior
// lives in the internal/cli package.
//
// Build-time variables (version, commit, date) are injected via ldflags
// by GoReleaser during the release process. During development, they
// default to "dev", "none", and "unknown" respectively.
package main

import (
	"github.com/mmr-tortoise/lintgate/internal/cli"
)

// version, commit, and date are set by GoReleaser at build time
// via ldflags. They back the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Execute exits the process with the gate's exit code.
	cli.Execute(cli.NewRootCommand())
}
