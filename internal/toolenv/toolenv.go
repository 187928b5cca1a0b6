package toolenv

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// Environment is an activated, isolated tool environment.
type Environment interface {
	// Runtime reports which kind of environment this is.
	Runtime() model.Runtime

	// Root is the venv directory or the image reference.
	Root() string

	// Command prepares, but does not start, tool with args in dir.
	// It returns a model.ErrToolNotFound CLIError when the tool cannot be
	// resolved inside the environment.
	Command(ctx context.Context, dir, tool string, args []string) (*exec.Cmd, error)
}

// ImageChecker reports whether a container image is available locally.
// *docker.Client satisfies it.
type ImageChecker interface {
	ImageExists(ctx context.Context, ref string) (bool, error)
}

// Options describe the environment to activate.
type Options struct {
	// Runtime selects venv or container.
	Runtime model.Runtime

	// Venv is the virtualenv directory, relative to the target directory
	// unless absolute.
	Venv string

	// Image is the tool image for the container runtime.
	Image string

	// Environ is the base environment for the linter process, usually
	// os.Environ(). It is copied, never modified.
	Environ []string

	// Images checks image presence for the container runtime.
	Images ImageChecker
}

// Activate makes the configured environment available to the linter.
// dir is the resolved target directory.
//
// Any failure is a model.ErrEnvironmentNotFound CLIError; the caller must
// not run the linter after it.
func Activate(ctx context.Context, dir string, opts Options) (Environment, error) {
	switch opts.Runtime {
	case model.RuntimeVenv, "":
		v, err := ActivateVenv(dir, opts.Venv, opts.Environ)
		if err != nil {
			return nil, err
		}
		return v, nil
	case model.RuntimeContainer:
		c, err := ActivateContainer(ctx, opts.Images, opts.Image, opts.Environ)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, model.NewCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("unsupported runtime %q", opts.Runtime))
	}
}
