package docker

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFirstSocket_PicksFirstExisting verifies probe order: the first
// existing path wins even if later ones exist too.
func TestFirstSocket_PicksFirstExisting(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.sock")
	first := filepath.Join(dir, "first.sock")
	second := filepath.Join(dir, "second.sock")
	require.NoError(t, os.WriteFile(first, nil, 0600))
	require.NoError(t, os.WriteFile(second, nil, 0600))

	host, err := firstSocket([]string{missing, first, second})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+first, host)
}

// TestFirstSocket_RealSocket verifies a listening unix socket is detected.
func TestFirstSocket_RealSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.sock")
	l, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	host, err := firstSocket([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+path, host)
}

func TestFirstSocket_NoneExist(t *testing.T) {
	_, err := firstSocket([]string{filepath.Join(t.TempDir(), "nope.sock")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Docker socket not found")
}

// TestNewClient_DockerHostEnv verifies DOCKER_HOST bypasses socket probing.
// Creating the client does not contact the daemon.
func TestNewClient_DockerHostEnv(t *testing.T) {
	t.Setenv("DOCKER_HOST", "tcp://127.0.0.1:2375")

	c, err := NewClient()
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestClose_ZeroValue(t *testing.T) {
	var c Client
	assert.NoError(t, c.Close())
}
