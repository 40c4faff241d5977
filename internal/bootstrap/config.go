// Package bootstrap implements the idempotent dependency-installation stage
// of the orchestrator: an isolated Python environment, the manifest-driven
// package install with its tiered fallback chain, and the persisted
// bootstrap state that makes re-runs cheap.
package bootstrap

import (
	"errors"
	"path/filepath"
)

// DefaultVenvDir is the isolated environment directory, relative to AppDir.
const DefaultVenvDir = ".venv"

// DefaultManifestName is the dependency manifest file name.
const DefaultManifestName = "requirements.txt"

// DefaultMarkerName is the bootstrap-state sentinel file name.
const DefaultMarkerName = ".fridgectl-bootstrap"

// DefaultPythonBin is the interpreter used to create the environment.
const DefaultPythonBin = "python3"

// Config holds dependency-installer settings.
type Config struct {
	// AppDir is the application directory containing the manifest and the
	// GUI entry point. Required.
	AppDir string `yaml:"app_dir"`

	// VenvDir is the isolated environment directory.
	// Default: <AppDir>/.venv
	VenvDir string `yaml:"venv_dir"`

	// ManifestPath is the dependency manifest.
	// Default: <AppDir>/requirements.txt
	ManifestPath string `yaml:"manifest_path"`

	// MarkerPath is the bootstrap-state sentinel file.
	// Default: <AppDir>/.fridgectl-bootstrap
	MarkerPath string `yaml:"marker_path"`

	// PythonBin is the interpreter for environment creation.
	// Default: python3
	PythonBin string `yaml:"python_bin"`
}

// ApplyDefaults sets default values for zero-valued fields. AppDir has no
// default and must be set by the caller.
func (c *Config) ApplyDefaults() {
	if c.VenvDir == "" {
		c.VenvDir = filepath.Join(c.AppDir, DefaultVenvDir)
	}
	if c.ManifestPath == "" {
		c.ManifestPath = filepath.Join(c.AppDir, DefaultManifestName)
	}
	if c.MarkerPath == "" {
		c.MarkerPath = filepath.Join(c.AppDir, DefaultMarkerName)
	}
	if c.PythonBin == "" {
		c.PythonBin = DefaultPythonBin
	}
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.AppDir == "" {
		return errors.New("bootstrap: config: AppDir is required")
	}
	return nil
}
