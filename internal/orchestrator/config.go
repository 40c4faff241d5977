// Package orchestrator holds the top-level configuration for fridgectl,
// aggregating the per-package configurations populated from a YAML file.
package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fridgepi/fridgectl/internal/bootstrap"
	"github.com/fridgepi/fridgectl/internal/service"
)

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultEntryPoint is the GUI application's entry script, relative to
	// the application directory.
	DefaultEntryPoint = "main.py"

	// DefaultEnvFileName is the application's environment configuration
	// file, relative to the application directory.
	DefaultEnvFileName = ".env"
)

// Config is the top-level configuration for fridgectl.
type Config struct {
	// AppDir is the application directory holding the GUI entry point, the
	// dependency manifest, and the env file. Default: current directory.
	AppDir string `yaml:"app_dir"`

	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// EntryPoint is the GUI entry script relative to AppDir.
	// Default: main.py
	EntryPoint string `yaml:"entry_point"`

	// EnvFile is the application env file relative to AppDir.
	// Default: .env
	EnvFile string `yaml:"env_file"`

	Bootstrap bootstrap.Config `yaml:"bootstrap"`
	Service   service.Config   `yaml:"service"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.AppDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.AppDir = wd
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.EntryPoint == "" {
		c.EntryPoint = DefaultEntryPoint
	}
	if c.EnvFile == "" {
		c.EnvFile = DefaultEnvFileName
	}
	if c.Bootstrap.AppDir == "" {
		c.Bootstrap.AppDir = c.AppDir
	}
	c.Bootstrap.ApplyDefaults()
	c.Service.ApplyDefaults()
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.AppDir == "" {
		return errors.New("orchestrator: config: AppDir is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("orchestrator: config: invalid log level %q", c.LogLevel)
	}
	if err := c.Bootstrap.Validate(); err != nil {
		return err
	}
	return c.Service.Validate()
}

// EntryPointPath is the absolute path of the GUI entry script.
func (c *Config) EntryPointPath() string {
	return filepath.Join(c.AppDir, c.EntryPoint)
}

// EnvFilePath is the absolute path of the application env file.
func (c *Config) EnvFilePath() string {
	return filepath.Join(c.AppDir, c.EnvFile)
}

// Load reads configuration from a YAML file without applying defaults, so
// callers can layer CLI flag overrides before Finalize. A missing file is
// not an error: defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("orchestrator: parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("orchestrator: read config %s: %w", path, err)
	}
	return &cfg, nil
}

// Finalize applies defaults and validates. Call after any overrides.
func (c *Config) Finalize() error {
	c.ApplyDefaults()
	return c.Validate()
}

// ParseConfig loads, defaults, and validates configuration in one step.
func ParseConfig(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
