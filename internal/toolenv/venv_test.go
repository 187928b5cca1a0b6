package toolenv

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// makeVenv creates dir/<name>/bin and returns the venv root.
func makeVenv(t *testing.T, dir, name string) string {
	t.Helper()
	root := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	return root
}

// writeTool places an executable shell script named tool in binDir.
func writeTool(t *testing.T, binDir, tool, body string) string {
	t.Helper()
	p := filepath.Join(binDir, tool)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return p
}

// envValue returns the last value of key in environ.
func envValue(environ []string, key string) (string, bool) {
	val, found := "", false
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			val, found = v, true
		}
	}
	return val, found
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("venv fixtures use POSIX shell scripts")
	}
}

func TestActivateVenv(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	root := makeVenv(t, dir, "venv")

	base := []string{
		"PATH=/usr/local/bin:/usr/bin",
		"HOME=/home/ci",
		"PYTHONHOME=/opt/python",
		"VIRTUAL_ENV=/some/other/venv",
	}
	snapshot := append([]string(nil), base...)

	v, err := ActivateVenv(dir, "venv", base)
	require.NoError(t, err)

	assert.Equal(t, model.RuntimeVenv, v.Runtime())
	assert.Equal(t, root, v.Root())
	assert.Equal(t, filepath.Join(root, "bin"), v.BinDir())

	env := v.Environ()
	path, _ := envValue(env, "PATH")
	assert.Equal(t, filepath.Join(root, "bin")+":/usr/local/bin:/usr/bin", path)

	venvVar, _ := envValue(env, "VIRTUAL_ENV")
	assert.Equal(t, root, venvVar)

	_, hasHome := envValue(env, "PYTHONHOME")
	assert.False(t, hasHome, "PYTHONHOME must be unset")

	home, _ := envValue(env, "HOME")
	assert.Equal(t, "/home/ci", home)

	assert.Equal(t, snapshot, base, "base environment must not be modified")
}

// TestActivateVenv_NoPath verifies the bin dir becomes the whole PATH when
// the base environment has none.
func TestActivateVenv_NoPath(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	root := makeVenv(t, dir, ".venv")

	v, err := ActivateVenv(dir, ".venv", nil)
	require.NoError(t, err)

	path, ok := envValue(v.Environ(), "PATH")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "bin"), path)
}

func TestActivateVenv_AbsolutePath(t *testing.T) {
	skipOnWindows(t)
	root := makeVenv(t, t.TempDir(), "shared-venv")

	v, err := ActivateVenv(t.TempDir(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, root, v.Root())
}

// TestActivateVenv_ProcessUntouched verifies activation does not change
// the running process's PATH.
func TestActivateVenv_ProcessUntouched(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	makeVenv(t, dir, "venv")
	before := os.Getenv("PATH")

	_, err := ActivateVenv(dir, "venv", os.Environ())
	require.NoError(t, err)
	assert.Equal(t, before, os.Getenv("PATH"))
}

func TestActivateVenv_Errors(t *testing.T) {
	skipOnWindows(t)

	t.Run("missing venv", func(t *testing.T) {
		_, err := ActivateVenv(t.TempDir(), "venv", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrEnvironmentNotFound))
		assert.Contains(t, err.Error(), "virtual environment not found")
	})

	t.Run("venv is a file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "venv"), nil, 0644))
		_, err := ActivateVenv(dir, "venv", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrEnvironmentNotFound))
	})

	t.Run("venv without bin", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "venv"), 0755))
		_, err := ActivateVenv(dir, "venv", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrEnvironmentNotFound))
		assert.Contains(t, err.Error(), "no bin directory")
	})
}

// TestVenv_LookPath_PrefersVenv verifies the venv copy of a tool shadows
// one found later on PATH.
func TestVenv_LookPath_PrefersVenv(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	root := makeVenv(t, dir, "venv")
	inVenv := writeTool(t, filepath.Join(root, "bin"), "flake8", "exit 0")

	system := t.TempDir()
	writeTool(t, system, "flake8", "exit 9")

	v, err := ActivateVenv(dir, "venv", []string{"PATH=" + system})
	require.NoError(t, err)

	got, err := v.LookPath(dir, "flake8")
	require.NoError(t, err)
	assert.Equal(t, inVenv, got)
}

// TestVenv_LookPath_FallsBackToPath verifies tools outside the venv are
// still found, as they would be after sourcing bin/activate.
func TestVenv_LookPath_FallsBackToPath(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	makeVenv(t, dir, "venv")
	system := t.TempDir()
	want := writeTool(t, system, "pylint", "exit 0")

	v, err := ActivateVenv(dir, "venv", []string{"PATH=" + system})
	require.NoError(t, err)

	got, err := v.LookPath(dir, "pylint")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVenv_LookPath_NotExecutable(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	root := makeVenv(t, dir, "venv")
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "flake8"), []byte("x"), 0644))

	v, err := ActivateVenv(dir, "venv", nil)
	require.NoError(t, err)

	_, err = v.LookPath(dir, "flake8")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestVenv_LookPath_RelativeToolPath(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	makeVenv(t, dir, "venv")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "scripts"), 0755))
	want := writeTool(t, filepath.Join(dir, "scripts"), "lint.sh", "exit 0")

	v, err := ActivateVenv(dir, "venv", nil)
	require.NoError(t, err)

	got, err := v.LookPath(dir, "scripts/lint.sh")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVenv_Command(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	root := makeVenv(t, dir, "venv")
	tool := writeTool(t, filepath.Join(root, "bin"), "flake8", "exit 0")

	v, err := ActivateVenv(dir, "venv", []string{"PATH=/usr/bin"})
	require.NoError(t, err)

	cmd, err := v.Command(context.Background(), dir, "flake8", []string{"."})
	require.NoError(t, err)
	assert.Equal(t, tool, cmd.Path)
	assert.Equal(t, []string{tool, "."}, cmd.Args)
	assert.Equal(t, dir, cmd.Dir)
	venvVar, _ := envValue(cmd.Env, "VIRTUAL_ENV")
	assert.Equal(t, root, venvVar)
}

func TestVenv_Command_ToolMissing(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	makeVenv(t, dir, "venv")

	v, err := ActivateVenv(dir, "venv", []string{"PATH=" + t.TempDir()})
	require.NoError(t, err)

	_, err = v.Command(context.Background(), dir, "flake8", []string{"."})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrToolNotFound))
}
