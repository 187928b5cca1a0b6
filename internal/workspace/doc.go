// Package workspace resolves the directory the linter runs in.
//
// The gate never calls os.Chdir. The resolved absolute path is handed to
// the linter process as its working directory instead, the same way git
// commands are pointed at a repository with -C, so the parent process
// keeps its own working directory.
package workspace
