package toolenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// Venv is an activated Python virtual environment.
type Venv struct {
	root    string
	binDir  string
	environ []string
}

// ActivateVenv locates the virtualenv at venvPath (relative to dir unless
// absolute) and builds the environment a sourced bin/activate would give
// a child process:
//
//   - VIRTUAL_ENV points at the venv root
//   - the venv's bin directory (Scripts on Windows) is first on PATH
//   - PYTHONHOME is removed
//
// base is copied; the running process's environment is never touched.
func ActivateVenv(dir, venvPath string, base []string) (*Venv, error) {
	root := venvPath
	if !filepath.IsAbs(root) {
		root = filepath.Join(dir, root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("virtual environment not found: %s", root), err)
	}
	if !info.IsDir() {
		return nil, model.NewCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("virtual environment is not a directory: %s", root))
	}

	binDir := filepath.Join(root, binDirName())
	if info, err := os.Stat(binDir); err != nil || !info.IsDir() {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrEnvironmentNotFound,
			fmt.Sprintf("virtual environment has no %s directory: %s", binDirName(), root), err)
	}

	return &Venv{
		root:    root,
		binDir:  binDir,
		environ: activatedEnviron(base, root, binDir),
	}, nil
}

func binDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// activatedEnviron returns a copy of base with the venv applied.
func activatedEnviron(base []string, root, binDir string) []string {
	out := make([]string, 0, len(base)+2)
	path := ""
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case envKeyEqual(key, "PATH"):
			path = value
		case envKeyEqual(key, "VIRTUAL_ENV"), envKeyEqual(key, "PYTHONHOME"):
		default:
			out = append(out, kv)
		}
	}

	if path == "" {
		path = binDir
	} else {
		path = binDir + string(os.PathListSeparator) + path
	}
	return append(out, "VIRTUAL_ENV="+root, "PATH="+path)
}

// envKeyEqual compares environment keys, case-insensitively on Windows.
func envKeyEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Runtime implements Environment.
func (v *Venv) Runtime() model.Runtime { return model.RuntimeVenv }

// Root implements Environment.
func (v *Venv) Root() string { return v.root }

// BinDir is the executables directory put first on PATH.
func (v *Venv) BinDir() string { return v.binDir }

// Environ returns a copy of the activated environment.
func (v *Venv) Environ() []string {
	return append([]string(nil), v.environ...)
}

// LookPath resolves tool against the activated PATH. Names containing a
// path separator are resolved relative to dir and used as-is.
func (v *Venv) LookPath(dir, tool string) (string, error) {
	if strings.ContainsRune(tool, '/') || strings.ContainsRune(tool, filepath.Separator) {
		p := tool
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if isExecutable(p) {
			return p, nil
		}
		return "", fmt.Errorf("%s: %w", p, exec.ErrNotFound)
	}

	for _, d := range filepath.SplitList(v.path()) {
		if d == "" {
			continue
		}
		for _, name := range candidateNames(tool) {
			p := filepath.Join(d, name)
			if isExecutable(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%s: %w", tool, exec.ErrNotFound)
}

func (v *Venv) path() string {
	for i := len(v.environ) - 1; i >= 0; i-- {
		if key, value, ok := strings.Cut(v.environ[i], "="); ok && envKeyEqual(key, "PATH") {
			return value
		}
	}
	return ""
}

// candidateNames lists the file names tool may have on disk.
func candidateNames(tool string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(tool) != "" {
		return []string{tool}
	}
	return []string{tool + ".exe", tool + ".bat", tool + ".cmd", tool}
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}

// Command implements Environment.
func (v *Venv) Command(ctx context.Context, dir, tool string, args []string) (*exec.Cmd, error) {
	path, err := v.LookPath(dir, tool)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, model.ErrToolNotFound,
			fmt.Sprintf("%s not found in virtual environment %s or on PATH", tool, v.root), err)
	}

	// #nosec G204 — tool and args come from the gate's own configuration
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Env = v.Environ()
	return cmd, nil
}
