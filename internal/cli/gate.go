// Package cli — gate.go implements the lint gate run by the root command.
//
// Orchestration steps:
//  1. Resolve configuration (defaults, file, .env, environment, flags)
//  2. Enter the target directory
//  3. Activate the tool environment (venv or container image)
//  4. Run the linter, streaming its output
//  5. Decide the exit code and print the summary
//
// Steps 2 and 3 are fatal: if either fails the linter is never started.
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/lintgate/internal/config"
	"github.com/mmr-tortoise/lintgate/internal/docker"
	"github.com/mmr-tortoise/lintgate/internal/lint"
	"github.com/mmr-tortoise/lintgate/internal/model"
	"github.com/mmr-tortoise/lintgate/internal/toolenv"
	"github.com/mmr-tortoise/lintgate/internal/workspace"
)

// gateFlags holds the flag values for the gate. A flag only overrides the
// loaded configuration when it was set explicitly.
type gateFlags struct {
	configPath       string
	dir              string
	runtime          string
	venv             string
	tool             string
	image            string
	preserveExitCode bool
}

// register binds the gate flags to cmd.
func (f *gateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "Config file (default: .lintgate.yaml, .lintgate.yml or .lintgate.json if present)")
	fs.StringVar(&f.dir, "dir", config.DefaultDir, "Directory to lint")
	fs.StringVar(&f.runtime, "runtime", string(config.DefaultRuntime), "Tool environment: venv or container")
	fs.StringVar(&f.venv, "venv", config.DefaultVenv, "Virtual environment directory, relative to --dir")
	fs.StringVar(&f.tool, "tool", config.DefaultTool, "Lint tool executable")
	fs.StringVar(&f.image, "image", "", "Container image holding the lint tool (container runtime)")
	fs.BoolVar(&f.preserveExitCode, "preserve-exit-code", false, "Exit with the linter's own code instead of 1 on failure")
}

// applyTo overrides cfg with every flag the user set.
func (f *gateFlags) applyTo(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("dir") {
		cfg.Dir = f.dir
	}
	if fs.Changed("runtime") {
		cfg.Runtime = model.Runtime(strings.ToLower(strings.TrimSpace(f.runtime)))
	}
	if fs.Changed("venv") {
		cfg.Venv = f.venv
	}
	if fs.Changed("tool") {
		cfg.Tool = f.tool
	}
	if fs.Changed("image") {
		cfg.Image = f.image
	}
	if fs.Changed("preserve-exit-code") {
		cfg.PreserveExitCode = f.preserveExitCode
	}
}

// runGate is the main logic function of the root command. It returns nil
// when the lint passed and a *model.CLIError otherwise.
func runGate(cmd *cobra.Command, flags *gateFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Resolve configuration.
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, nil, "failed to get current directory", err)
	}

	cfg, err := config.Load(cwd, flags.configPath, os.Environ())
	if err != nil {
		return err
	}
	flags.applyTo(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Source != "" {
		VerboseLog("Loaded config from %s", cfg.Source)
	}

	// Step 2: Enter the target directory.
	dir, err := workspace.Enter(cwd, cfg.Dir)
	if err != nil {
		return err
	}
	VerboseLog("Target directory: %s", dir)

	// Step 3: Activate the tool environment.
	env, cleanup, err := activate(ctx, dir, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	VerboseLog("Activated %s environment %s", env.Runtime(), env.Root())

	// Step 4: Run the linter.
	runner := &lint.Runner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	VerboseLog("Running %s %v", cfg.Tool, cfg.Args)
	result, runErr := runner.Run(ctx, env, dir, cfg.Tool, cfg.Args)

	// Step 5: Decide and report.
	code, decideErr := lint.Decide(result, cfg.PreserveExitCode)
	printSummary(cmd.ErrOrStderr(), result, code)

	if runErr != nil {
		// Tool missing: report why, with the decided exit code.
		if cliErr, ok := runErr.(*model.CLIError); ok {
			cliErr.Code = code
		}
		return runErr
	}
	return decideErr
}

// activate builds the tool environment for cfg. The returned cleanup must
// be called once the linter has finished.
func activate(ctx context.Context, dir string, cfg *config.Config) (toolenv.Environment, func(), error) {
	opts := toolenv.Options{
		Runtime: cfg.Runtime,
		Venv:    cfg.Venv,
		Image:   cfg.Image,
		Environ: os.Environ(),
	}
	cleanup := func() {}

	if cfg.Runtime == model.RuntimeContainer {
		dc, err := docker.NewClient()
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = dc.Close() }

		if err := dc.Ping(ctx); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		VerboseLog("Connected to Docker daemon")
		opts.Images = dc
	}

	env, err := toolenv.Activate(ctx, dir, opts)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return env, cleanup, nil
}
