package docker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docker/docker/client"
)

// ContainerWorkdir is where the target directory is mounted inside the
// lint container.
const ContainerWorkdir = "/workspace"

// ImageExists reports whether ref is present in the local image store.
// A missing image is (false, nil); any other daemon error is returned.
// Images are never pulled: provisioning the tool image is the caller's
// job, just like creating the virtualenv.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, err := c.inner.ImageInspect(ctx, ref)
	if err == nil {
		return true, nil
	}
	if client.IsErrNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("inspect image %q: %w", ref, err)
}

// RunArgs builds the arguments for `docker` that run tool inside image
// with hostDir mounted at ContainerWorkdir:
//
//	docker run --rm --entrypoint <tool> -v <hostDir>:/workspace -w /workspace <image> <args...>
//
// The tool replaces the image entrypoint. `docker run` exits with the
// container's exit status, so the linter's code survives the extra process
// layer. Stdin is not attached.
func RunArgs(image, hostDir, tool string, toolArgs []string) []string {
	args := make([]string, 0, len(toolArgs)+8)
	args = append(args,
		"run", "--rm",
		"--entrypoint", tool,
		"-v", filepath.ToSlash(hostDir)+":"+ContainerWorkdir,
		"-w", ContainerWorkdir,
		image,
	)
	args = append(args, toolArgs...)
	return args
}
