// Package docker provides Docker Engine API wrappers for the container
// runtime of lintgate.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Image presence checks used to activate a container tool environment
//   - Building the `docker run` invocation that executes the linter
//     inside the image with the target directory bind-mounted
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
