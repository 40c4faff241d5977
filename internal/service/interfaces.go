package service

import "context"

// SystemdController abstracts systemd service management for testability.
type SystemdController interface {
	// IsAvailable returns true if systemd (systemctl) is available.
	IsAvailable() bool

	// DaemonReload executes systemctl daemon-reload to pick up unit file
	// changes.
	DaemonReload() error

	// Enable enables the named service to start on boot.
	Enable(service string) error

	// Disable disables the named service from starting on boot.
	Disable(service string) error

	// Start starts the named service.
	Start(service string) error

	// Stop stops the named service. Returns nil if it is not running.
	Stop(service string) error

	// Restart restarts the named service.
	Restart(service string) error

	// IsActive returns true if the named service is currently running.
	IsActive(service string) bool

	// Status returns the supervisor's status output for the named service.
	// The output is returned even when the service is inactive.
	Status(service string) (string, error)
}

// LogStreamer attaches to the supervisor's log stream for a unit.
type LogStreamer interface {
	// Stream writes the unit's log output to the caller's stdio. With
	// follow set it blocks until ctx is cancelled or the stream ends.
	Stream(ctx context.Context, service string, follow bool) error
}

// RootChecker abstracts privilege checking for testability.
type RootChecker interface {
	// IsRoot returns true if the current process has root privileges.
	IsRoot() bool
}
