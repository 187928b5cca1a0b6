package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// pingTimeout bounds the daemon health check. Docker Desktop on macOS can
// take a few seconds to answer after wake-up.
const pingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client. Only the calls lintgate needs
// are exposed.
//
// Usage:
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
//	ok, err := c.ImageExists(ctx, "python-lint:3.12")
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client. DOCKER_HOST is honoured when set;
// otherwise the platform's default daemon endpoint is probed:
//   - Linux: /var/run/docker.sock
//   - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//   - Windows: npipe:////./pipe/docker_engine
//
// Failures are reported as model.ErrEnvironmentNotFound, because without a
// daemon the container tool environment cannot exist.
func NewClient() (*Client, error) {
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return dial(host)
	}

	host, err := defaultHost()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			"Docker socket not found", err)
	}
	return dial(host)
}

// dial creates an SDK client for host with API version negotiation.
func dial(host string) (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("failed to create Docker client for host %q", host), err)
	}
	return &Client{inner: c}, nil
}

// defaultHost returns the daemon address for the current platform.
func defaultHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return firstSocket([]string{"/var/run/docker.sock"})

	case "darwin":
		candidates := []string{"/var/run/docker.sock"}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		return firstSocket(candidates)

	case "windows":
		// os.Stat does not work on named pipes; dial briefly instead.
		const pipe = `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipe, time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipe, err)
		}
		_ = conn.Close()
		return "npipe://" + pipe, nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// firstSocket returns a unix:// URI for the first path that exists.
// Existence does not imply a listening daemon; Ping checks that.
func firstSocket(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return "unix://" + p, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of: %v — is Docker running?", paths)
}

// Ping verifies that the daemon answers within pingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(ctx); err != nil {
		return model.WrapCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			"Docker daemon is not responding — is Docker running?", err)
	}
	return nil
}

// Close releases the client's connections. Safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}
