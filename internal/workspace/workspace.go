package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// Enter resolves dir against baseDir and verifies that it exists and is a
// directory. It returns the absolute, cleaned path.
//
// A missing path, or a path that is not a directory, yields a
// model.CLIError of kind model.ErrDirectoryNotFound. The caller must stop
// there: nothing after this step may run against a missing tree.
func Enter(baseDir, dir string) (string, error) {
	path := dir
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", model.WrapCLIError(model.ExitFailure, model.ErrDirectoryNotFound,
			fmt.Sprintf("cannot resolve target directory %q", dir), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", model.WrapCLIError(model.ExitFailure, model.ErrDirectoryNotFound,
			fmt.Sprintf("target directory not found: %s", abs), err)
	}
	if !info.IsDir() {
		return "", model.NewCLIError(model.ExitFailure, model.ErrDirectoryNotFound,
			fmt.Sprintf("target path is not a directory: %s", abs))
	}

	return abs, nil
}
