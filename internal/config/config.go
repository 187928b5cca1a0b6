package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/lintgate/internal/model"
)

// Default values reproduce the layout of the project the gate was written
// for: a Python backend in ./backend with its virtualenv in backend/venv.
const (
	DefaultDir     = "backend"
	DefaultVenv    = "venv"
	DefaultTool    = "flake8"
	DefaultRuntime = model.RuntimeVenv
)

// DefaultArgs lints the whole working tree.
var DefaultArgs = []string{"."}

// DiscoveryFiles are probed in order when no --config flag is given.
var DiscoveryFiles = []string{".lintgate.yaml", ".lintgate.yml", ".lintgate.json"}

// DotEnvFile is read from the current directory if present.
const DotEnvFile = ".env"

// Environment variable names recognised as overrides.
const (
	EnvDir              = "LINTGATE_DIR"
	EnvRuntime          = "LINTGATE_RUNTIME"
	EnvVenv             = "LINTGATE_VENV"
	EnvTool             = "LINTGATE_TOOL"
	EnvArgs             = "LINTGATE_ARGS"
	EnvImage            = "LINTGATE_IMAGE"
	EnvPreserveExitCode = "LINTGATE_PRESERVE_EXIT_CODE"
)

// Config is the fully resolved gate configuration.
type Config struct {
	// Dir is the target directory holding the source tree. Relative paths
	// resolve against the current working directory.
	Dir string `yaml:"dir" json:"dir"`

	// Runtime selects the isolated tool environment kind.
	Runtime model.Runtime `yaml:"runtime" json:"runtime"`

	// Venv is the virtual environment directory, relative to Dir unless
	// absolute. Used by the venv runtime only.
	Venv string `yaml:"venv" json:"venv"`

	// Tool is the linter executable name.
	Tool string `yaml:"tool" json:"tool"`

	// Args are passed to Tool verbatim.
	Args []string `yaml:"args" json:"args"`

	// Image is the container image holding Tool. Used by the container
	// runtime only.
	Image string `yaml:"image" json:"image"`

	// PreserveExitCode makes a failed lint exit with the linter's own code
	// instead of the normalized 1.
	PreserveExitCode bool `yaml:"preserve_exit_code" json:"preserve_exit_code"`

	// Source is the config file the values were read from, empty when only
	// defaults and overrides apply.
	Source string `yaml:"-" json:"-"`
}

// Default returns a Config holding the built-in defaults.
func Default() *Config {
	return &Config{
		Dir:     DefaultDir,
		Runtime: DefaultRuntime,
		Venv:    DefaultVenv,
		Tool:    DefaultTool,
		Args:    append([]string(nil), DefaultArgs...),
	}
}

// fileConfig mirrors Config with pointer fields so that a file can
// override a default with an explicit zero value (e.g. args: []).
type fileConfig struct {
	Dir              *string   `yaml:"dir" json:"dir"`
	Runtime          *string   `yaml:"runtime" json:"runtime"`
	Venv             *string   `yaml:"venv" json:"venv"`
	Tool             *string   `yaml:"tool" json:"tool"`
	Args             *[]string `yaml:"args" json:"args"`
	Image            *string   `yaml:"image" json:"image"`
	PreserveExitCode *bool     `yaml:"preserve_exit_code" json:"preserve_exit_code"`
}

// Load builds a Config from defaults, the config file, and the
// environment. explicitPath is the --config flag value; when empty, the
// DiscoveryFiles are probed in baseDir. environ is the process
// environment in os.Environ() form.
//
// Flags are not applied here; the CLI layer overrides fields afterwards
// and then calls Validate.
func Load(baseDir, explicitPath string, environ []string) (*Config, error) {
	cfg := Default()

	path, err := locateFile(baseDir, explicitPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	env, err := readEnv(baseDir, environ)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// locateFile returns the config file to read, or "" if discovery found
// nothing. A missing explicit path is an error; a missing discovered path
// is not.
func locateFile(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(baseDir, explicitPath)
		}
		if _, err := os.Stat(explicitPath); err != nil {
			return "", model.WrapCLIError(model.ExitFailure, model.ErrInvalidConfig,
				fmt.Sprintf("config file not found: %s", explicitPath), err)
		}
		return explicitPath, nil
	}

	for _, name := range DiscoveryFiles {
		candidate := filepath.Join(baseDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

// applyFile decodes a YAML or JSONC config file over cfg.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, model.ErrInvalidConfig,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	default:
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, model.ErrInvalidConfig,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}

	if fc.Dir != nil {
		c.Dir = *fc.Dir
	}
	if fc.Runtime != nil {
		c.Runtime = model.Runtime(strings.ToLower(*fc.Runtime))
	}
	if fc.Venv != nil {
		c.Venv = *fc.Venv
	}
	if fc.Tool != nil {
		c.Tool = *fc.Tool
	}
	if fc.Args != nil {
		c.Args = append([]string{}, (*fc.Args)...)
	}
	if fc.Image != nil {
		c.Image = *fc.Image
	}
	if fc.PreserveExitCode != nil {
		c.PreserveExitCode = *fc.PreserveExitCode
	}
	c.Source = path
	return nil
}

// readEnv merges the optional .env file under the process environment.
// godotenv.Read is used instead of godotenv.Load so the process
// environment is left untouched.
func readEnv(baseDir string, environ []string) (map[string]string, error) {
	merged := make(map[string]string)

	dotEnv := filepath.Join(baseDir, DotEnvFile)
	if _, err := os.Stat(dotEnv); err == nil {
		values, err := godotenv.Read(dotEnv)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitFailure, model.ErrInvalidConfig,
				fmt.Sprintf("failed to parse %s", dotEnv), err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			merged[k] = v
		}
	}
	return merged, nil
}

// applyEnv applies LINTGATE_* overrides. Empty values are ignored.
func (c *Config) applyEnv(env map[string]string) error {
	if v := strings.TrimSpace(env[EnvDir]); v != "" {
		c.Dir = v
	}
	if v := strings.TrimSpace(env[EnvRuntime]); v != "" {
		c.Runtime = model.Runtime(strings.ToLower(v))
	}
	if v := strings.TrimSpace(env[EnvVenv]); v != "" {
		c.Venv = v
	}
	if v := strings.TrimSpace(env[EnvTool]); v != "" {
		c.Tool = v
	}
	if v := strings.TrimSpace(env[EnvArgs]); v != "" {
		c.Args = strings.Fields(v)
	}
	if v := strings.TrimSpace(env[EnvImage]); v != "" {
		c.Image = v
	}
	if v := strings.TrimSpace(env[EnvPreserveExitCode]); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return model.WrapCLIError(model.ExitFailure, model.ErrInvalidConfig,
				fmt.Sprintf("invalid %s value %q", EnvPreserveExitCode, v), err)
		}
		c.PreserveExitCode = b
	}
	return nil
}

// Validate checks that the configuration is usable. It is called after
// flag overrides have been applied.
func (c *Config) Validate() error {
	var problems []error

	if strings.TrimSpace(c.Dir) == "" {
		problems = append(problems, errors.New("dir must not be empty"))
	}
	if strings.TrimSpace(c.Tool) == "" {
		problems = append(problems, errors.New("tool must not be empty"))
	}
	if _, err := model.ParseRuntime(string(c.Runtime)); err != nil {
		problems = append(problems, err)
	}

	switch c.Runtime {
	case model.RuntimeVenv:
		if strings.TrimSpace(c.Venv) == "" {
			problems = append(problems, errors.New("venv must not be empty for the venv runtime"))
		}
	case model.RuntimeContainer:
		if strings.TrimSpace(c.Image) == "" {
			problems = append(problems, errors.New("image must be set for the container runtime"))
		}
	}

	if len(problems) > 0 {
		return model.WrapCLIError(model.ExitFailure, model.ErrInvalidConfig,
			"invalid configuration", errors.Join(problems...))
	}
	return nil
}
