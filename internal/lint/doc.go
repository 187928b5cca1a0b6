// Package lint runs the static-analysis tool and turns its exit status
// into the gate's verdict.
//
// Runner.Run spawns the tool inside an activated toolenv.Environment,
// streams its output through unmodified, and captures its exit code in a
// model.LintResult. Decide maps that result to the process exit code:
// 0 passes, anything else fails with the normalized code 1 unless the
// linter's own code is preserved.
package lint
