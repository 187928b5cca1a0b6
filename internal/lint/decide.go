package lint

import (
	"fmt"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// Decide maps a captured lint result to the gate's exit code.
//
// Exit 0 passes. Any other code is a lint failure: the returned error is a
// model.ErrLintFailed CLIError whose Code is 1, or the linter's own code
// when preserve is set and that code is a valid process status (1..255).
func Decide(result *model.LintResult, preserve bool) (model.ExitCode, error) {
	if result.Passed() {
		return model.ExitSuccess, nil
	}

	code := model.ExitFailure
	if preserve && result.ExitCode >= 1 && result.ExitCode <= 255 {
		code = model.ExitCode(result.ExitCode)
	}

	return code, model.NewCLIError(code, model.ErrLintFailed,
		fmt.Sprintf("%s exited with code %d", result.Tool, result.ExitCode))
}
