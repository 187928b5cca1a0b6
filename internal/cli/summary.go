package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// summaryJSON is the --json form of the summary line.
type summaryJSON struct {
	Tool       string   `json:"tool"`
	Args       []string `json:"args"`
	Dir        string   `json:"dir"`
	ExitCode   int      `json:"exitCode"`
	GateCode   int      `json:"gateExitCode"`
	Passed     bool     `json:"passed"`
	DurationMs int64    `json:"durationMs"`
}

// printSummary writes the one-line verdict to w, which is stderr in
// normal use so it never mixes into the linter's stdout.
func printSummary(w io.Writer, result *model.LintResult, code model.ExitCode) {
	if IsJSONOutput() {
		args := result.Args
		if args == nil {
			args = []string{}
		}
		data, _ := json.Marshal(summaryJSON{
			Tool:       result.Tool,
			Args:       args,
			Dir:        result.Dir,
			ExitCode:   result.ExitCode,
			GateCode:   int(code),
			Passed:     result.Passed(),
			DurationMs: result.Duration.Milliseconds(),
		})
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintln(w, formatSummary(result, isTerminal(w)))
}

// formatSummary renders the text verdict, colored when styled is true.
//
//	lint passed: flake8 . (0.84s)
//	lint failed: flake8 . exited with code 3
func formatSummary(result *model.LintResult, styled bool) string {
	if result.Passed() {
		label := "lint passed"
		if styled {
			label = passStyle.Render(label)
		}
		return fmt.Sprintf("%s: %s (%s)", label, result.CommandLine(), result.Duration.Round(10*time.Millisecond))
	}

	label := "lint failed"
	if styled {
		label = failStyle.Render(label)
	}
	return fmt.Sprintf("%s: %s exited with code %d", label, result.CommandLine(), result.ExitCode)
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
