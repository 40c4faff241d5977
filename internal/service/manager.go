package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fridgepi/fridgectl/internal/fsutil"
)

// ErrNotInstalled is returned by lifecycle operations that require the unit
// file when it is absent.
var ErrNotInstalled = errors.New("service: not installed, run 'fridgectl service install' first")

// ErrAlreadyInstalled is returned by Install when the unit file already
// exists. Reinstalling requires an explicit uninstall.
var ErrAlreadyInstalled = errors.New("service: already installed, run 'fridgectl service uninstall' first")

// Manager installs and drives the systemd service for the fridge
// application. Supervisor interaction goes through the injected
// SystemdController; unit-file writes are atomic.
type Manager struct {
	cfg     Config
	systemd SystemdController
	streams LogStreamer
	root    RootChecker
	logger  *slog.Logger
}

// NewManager creates a Manager with defaults applied.
func NewManager(cfg Config, systemd SystemdController, streams LogStreamer, root RootChecker, logger *slog.Logger) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		cfg:     cfg,
		systemd: systemd,
		streams: streams,
		root:    root,
		logger:  logger.With("component", "service"),
	}
}

// installed reports whether the unit file exists.
func (m *Manager) installed() bool {
	_, err := os.Stat(m.cfg.UnitFilePath)
	return err == nil
}

// Install writes the unit file, reloads the supervisor, and enables
// boot-time start. It fails without side effects when the unit file already
// exists. Unit-file writes and the supervisor reload are not transactional;
// a failure after the write reports the partial state explicitly.
func (m *Manager) Install(desc UnitDescriptor) error {
	if !m.root.IsRoot() {
		return errors.New("service: install requires root privileges")
	}
	if !m.systemd.IsAvailable() {
		return errors.New("service: systemd is not available")
	}
	if m.installed() {
		return ErrAlreadyInstalled
	}

	content, err := BuildUnitFile(desc)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(m.cfg.UnitFilePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("service: write unit file %s: %w", m.cfg.UnitFilePath, err)
	}
	m.logger.Info("unit file written", "path", m.cfg.UnitFilePath)

	if err := m.systemd.DaemonReload(); err != nil {
		return fmt.Errorf("service: unit file written at %s but daemon-reload failed, supervisor state is stale: %w",
			m.cfg.UnitFilePath, err)
	}
	if err := m.systemd.Enable(m.cfg.ServiceName); err != nil {
		return fmt.Errorf("service: unit installed and reloaded but enable failed, boot-time start is off: %w", err)
	}
	m.logger.Info("service installed and enabled", "service", m.cfg.ServiceName)
	return nil
}

// Uninstall stops the running instance if active, disables boot-time start,
// removes the unit file, and reloads the supervisor. It fails when nothing
// is installed.
func (m *Manager) Uninstall() error {
	if !m.root.IsRoot() {
		return errors.New("service: uninstall requires root privileges")
	}
	if !m.installed() {
		return ErrNotInstalled
	}

	if m.systemd.IsActive(m.cfg.ServiceName) {
		if err := m.systemd.Stop(m.cfg.ServiceName); err != nil {
			m.logger.Warn("stop before uninstall failed", "error", err)
		}
	}
	if err := m.systemd.Disable(m.cfg.ServiceName); err != nil {
		m.logger.Warn("disable before uninstall failed", "error", err)
	}
	if err := os.Remove(m.cfg.UnitFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("service: remove unit file: %w", err)
	}
	m.logger.Info("unit file removed", "path", m.cfg.UnitFilePath)

	if err := m.systemd.DaemonReload(); err != nil {
		return fmt.Errorf("service: unit file removed but daemon-reload failed, supervisor state is stale: %w", err)
	}
	return nil
}

// Start starts the service. The unit file must exist.
func (m *Manager) Start() error {
	if !m.installed() {
		return ErrNotInstalled
	}
	return m.systemd.Start(m.cfg.ServiceName)
}

// Stop stops the service. The unit file must exist.
func (m *Manager) Stop() error {
	if !m.installed() {
		return ErrNotInstalled
	}
	return m.systemd.Stop(m.cfg.ServiceName)
}

// Restart restarts the service. The unit file must exist.
func (m *Manager) Restart() error {
	if !m.installed() {
		return ErrNotInstalled
	}
	return m.systemd.Restart(m.cfg.ServiceName)
}

// Enable enables boot-time start. The unit file must exist.
func (m *Manager) Enable() error {
	if !m.installed() {
		return ErrNotInstalled
	}
	return m.systemd.Enable(m.cfg.ServiceName)
}

// Disable disables boot-time start. The unit file must exist.
func (m *Manager) Disable() error {
	if !m.installed() {
		return ErrNotInstalled
	}
	return m.systemd.Disable(m.cfg.ServiceName)
}

// Status writes the supervisor's status output to w. A missing unit file is
// not an error: guidance is printed instead.
func (m *Manager) Status(w io.Writer) error {
	if !m.installed() {
		fmt.Fprintf(w, "%s is not installed as a service.\nRun 'fridgectl service install' to set it up.\n",
			m.cfg.ServiceName)
		return nil
	}
	output, err := m.systemd.Status(m.cfg.ServiceName)
	if err != nil {
		return err
	}
	fmt.Fprint(w, output)
	return nil
}

// Logs attaches to the supervisor's log stream for the service. With follow
// set it blocks until ctx is cancelled; interruption is the only exit path.
func (m *Manager) Logs(ctx context.Context, follow bool) error {
	if !m.installed() {
		return ErrNotInstalled
	}
	return m.streams.Stream(ctx, m.cfg.ServiceName, follow)
}
