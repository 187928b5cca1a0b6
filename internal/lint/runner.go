package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/mmr-tortoise/lintgate/internal/model"
	"github.com/mmr-tortoise/lintgate/internal/toolenv"
)

// Runner executes the lint tool inside an activated environment.
type Runner struct {
	// Stdout and Stderr receive the tool's output byte for byte. They
	// default to the process's own stdout and stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner wired to the process's stdout and stderr.
func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes tool with args in dir and blocks until the process has
// exited and been reaped. The returned result always carries the exit
// code of this invocation:
//
//   - the tool's own status when it ran to completion
//   - -1 when it was terminated by a signal
//   - 127 when it could not be found or started; the error is then a
//     model.ErrToolNotFound CLIError
//
// A nonzero exit is not an error here; Decide turns it into one.
func (r *Runner) Run(ctx context.Context, env toolenv.Environment, dir, tool string, args []string) (*model.LintResult, error) {
	result := &model.LintResult{
		Tool: tool,
		Args: append([]string(nil), args...),
		Dir:  dir,
	}

	cmd, err := env.Command(ctx, dir, tool, args)
	if err != nil {
		result.ExitCode = int(model.ExitToolNotFound)
		return result, err
	}

	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	start := time.Now()
	err = cmd.Run()
	result.Duration = time.Since(start)

	if err == nil {
		result.ExitCode = 0
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	// The process never started (missing binary, permission denied, bad
	// working directory).
	result.ExitCode = int(model.ExitToolNotFound)
	return result, model.WrapCLIError(model.ExitFailure, model.ErrToolNotFound,
		fmt.Sprintf("failed to start %s", tool), err)
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
