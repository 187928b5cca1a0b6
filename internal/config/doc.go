// Package config resolves lintgate settings from built-in defaults, an
// optional YAML or JSONC config file, an optional .env file, and LINTGATE_*
// environment variables.
//
// Command-line flags are layered on top by the cli package, which then
// calls Config.Validate.
package config
