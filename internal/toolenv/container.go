package toolenv

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mmr-tortoise/lintgate/internal/docker"
	"github.com/mmr-tortoise/lintgate/internal/model"
)

// dockerBinary is the CLI used to run the lint container; its exit status
// is the tool's exit status.
var dockerBinary = "docker"

// Container is an activated container image environment.
type Container struct {
	image   string
	environ []string
}

// ActivateContainer verifies that image is present in the local Docker
// image store. Images are not pulled.
func ActivateContainer(ctx context.Context, images ImageChecker, image string, base []string) (*Container, error) {
	if image == "" {
		return nil, model.NewCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			"no container image configured")
	}
	if images == nil {
		return nil, model.NewCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			"Docker is not available")
	}

	ok, err := images.ImageExists(ctx, image)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("cannot check container image %q", image), err)
	}
	if !ok {
		return nil, model.NewCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("container image not found locally: %s", image))
	}

	return &Container{image: image, environ: append([]string(nil), base...)}, nil
}

// Runtime implements Environment.
func (c *Container) Runtime() model.Runtime { return model.RuntimeContainer }

// Root implements Environment.
func (c *Container) Root() string { return c.image }

// Command implements Environment. The tool is resolved inside the image,
// so a missing tool shows up as a nonzero `docker run` exit instead of an
// error here; only a missing docker CLI is reported as ErrToolNotFound.
func (c *Container) Command(ctx context.Context, dir, tool string, args []string) (*exec.Cmd, error) {
	bin, err := exec.LookPath(dockerBinary)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrToolNotFound,
			"docker CLI not found on PATH", err)
	}

	// #nosec G204 — arguments are built from the gate's own configuration
	cmd := exec.CommandContext(ctx, bin, docker.RunArgs(c.image, dir, tool, args)...)
	cmd.Dir = dir
	cmd.Env = append([]string(nil), c.environ...)
	return cmd, nil
}
