// Package service manages the fridge application's systemd service: unit
// file synthesis, install/uninstall, and the start/stop/status/logs
// operations delegated to the process supervisor.
package service

import (
	"errors"
	"fmt"
)

// DefaultServiceName is the systemd service name.
const DefaultServiceName = "fridge-app"

// DefaultRestartSec is the delay before the supervisor restarts a failed
// instance.
const DefaultRestartSec = 10

// Config holds the lifecycle manager's settings.
type Config struct {
	// ServiceName is the systemd service name.
	// Default: fridge-app
	ServiceName string `yaml:"service_name"`

	// UnitFilePath is the path for the systemd unit file.
	// Default: /etc/systemd/system/<ServiceName>.service
	UnitFilePath string `yaml:"unit_file_path"`

	// RestartSec is the restart delay in seconds.
	// Default: 10
	RestartSec int `yaml:"restart_sec"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.UnitFilePath == "" {
		c.UnitFilePath = fmt.Sprintf("/etc/systemd/system/%s.service", c.ServiceName)
	}
	if c.RestartSec == 0 {
		c.RestartSec = DefaultRestartSec
	}
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("service: config: ServiceName is required")
	}
	if c.UnitFilePath == "" {
		return errors.New("service: config: UnitFilePath is required")
	}
	if c.RestartSec < 0 {
		return errors.New("service: config: RestartSec must not be negative")
	}
	return nil
}
