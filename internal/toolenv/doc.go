// Package toolenv activates the isolated environment that holds the lint
// tool.
//
// Two kinds are supported:
//   - Venv: a Python virtual environment. Activation computes the child
//     environment (VIRTUAL_ENV, PATH) that sourcing bin/activate would give,
//     without changing the running process.
//   - Container: a local Docker image. Activation checks that the image is
//     present; the linter then runs through `docker run --rm`.
//
// Both return an Environment whose Command method prepares the linter
// process for the lint package to run.
package toolenv
