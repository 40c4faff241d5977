package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fridgepi/fridgectl/internal/envprobe"
)

// embeddedGraphicsPackages are the GLES/windowing libraries the GUI
// framework needs on single-board computers. They are installed through the
// OS package manager and re-checked on every invocation, independent of the
// bootstrap marker: the libraries can be removed without touching the
// Python environment.
var embeddedGraphicsPackages = []string{
	"libgles2-mesa",
	"libegl1",
	"libxcb-cursor0",
}

// InstallError is returned when every installation tier failed. Trail holds
// one diagnostic per attempted tier, in order.
type InstallError struct {
	Trail []string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("bootstrap: all install tiers failed:\n  %s",
		strings.Join(e.Trail, "\n  "))
}

// ErrToolMissing is returned when the language runtime is absent and its
// automatic installation failed.
var ErrToolMissing = errors.New("bootstrap: required runtime missing")

// Installer ensures the application's dependencies are present. It is safe
// to call repeatedly: once the marker records a successful install, later
// calls perform no manifest installation.
type Installer struct {
	cfg      Config
	platform envprobe.PlatformClass
	pm       PackageManager
	store    Store
	hasTool  func(string) bool
	logger   *slog.Logger
}

// NewInstaller creates an Installer with defaults applied. hasTool reports
// whether a named executable resolves on PATH (envprobe.Prober.HasTool).
func NewInstaller(cfg Config, platform envprobe.PlatformClass, pm PackageManager, store Store, hasTool func(string) bool, logger *slog.Logger) *Installer {
	cfg.ApplyDefaults()
	return &Installer{
		cfg:      cfg,
		platform: platform,
		pm:       pm,
		store:    store,
		hasTool:  hasTool,
		logger:   logger.With("component", "bootstrap"),
	}
}

// EnsureDependencies runs the tiered installation chain:
//
//  1. upgrade pip inside the isolated environment, install the manifest there
//  2. install the manifest into the user scope
//  3. install the manifest with elevated privileges
//
// The first tier to succeed writes the marker and ends the chain. If all
// three fail an *InstallError with the accumulated diagnostic trail is
// returned and nothing further should proceed.
func (i *Installer) EnsureDependencies(ctx context.Context) error {
	// Embedded graphics libraries are deliberately outside the marker gate.
	if i.platform == envprobe.PlatformEmbedded {
		if err := i.pm.InstallSystemPackages(ctx, embeddedGraphicsPackages...); err != nil {
			i.logger.Warn("embedded graphics packages check failed", "error", err)
		} else {
			i.logger.Info("embedded graphics packages present")
		}
	}

	st, err := i.store.Load()
	if err != nil {
		return err
	}
	if st.DependenciesInstalled {
		i.logger.Info("dependencies already installed, skipping", "marker", i.cfg.MarkerPath)
		return nil
	}

	var trail []string

	// Tier 1: the isolated environment.
	if err := i.installVenvTier(ctx); err != nil {
		trail = append(trail, fmt.Sprintf("tier 1 (venv): %v", err))
		i.logger.Warn("venv install failed, falling back to user scope", "error", err)

		// Tier 2: user scope.
		if err := i.pm.InstallManifestUser(ctx, i.cfg.ManifestPath); err != nil {
			trail = append(trail, fmt.Sprintf("tier 2 (user): %v", err))
			i.logger.Warn("user-scope install failed, falling back to elevated", "error", err)

			// Tier 3: elevated privileges, last resort.
			if err := i.pm.InstallManifestElevated(ctx, i.cfg.ManifestPath); err != nil {
				trail = append(trail, fmt.Sprintf("tier 3 (elevated): %v", err))
				return &InstallError{Trail: trail}
			}
		}
	}

	st.DependenciesInstalled = true
	st.Platform = i.platform
	if err := i.store.Save(st); err != nil {
		return err
	}
	i.logger.Info("dependencies installed", "marker", i.cfg.MarkerPath)
	return nil
}

// installVenvTier creates the isolated environment if absent, upgrades pip
// inside it, and installs the manifest there.
func (i *Installer) installVenvTier(ctx context.Context) error {
	if _, err := os.Stat(i.cfg.VenvDir); os.IsNotExist(err) {
		if err := i.ensureRuntime(ctx); err != nil {
			return err
		}
		i.logger.Info("creating isolated environment", "dir", i.cfg.VenvDir)
		if err := i.pm.CreateVenv(ctx, i.cfg.VenvDir); err != nil {
			return err
		}
	}
	if err := i.pm.UpgradePip(ctx, i.cfg.VenvDir); err != nil {
		return err
	}
	return i.pm.InstallManifest(ctx, i.cfg.VenvDir, i.cfg.ManifestPath)
}

// ensureRuntime checks for the language runtime and attempts a single
// automatic installation when it is absent.
func (i *Installer) ensureRuntime(ctx context.Context) error {
	if i.hasTool(i.cfg.PythonBin) {
		return nil
	}
	i.logger.Info("runtime missing, attempting installation", "tool", i.cfg.PythonBin)
	if err := i.pm.InstallSystemPackages(ctx, "python3", "python3-venv"); err != nil {
		return fmt.Errorf("%w: %s: install failed: %v", ErrToolMissing, i.cfg.PythonBin, err)
	}
	if !i.hasTool(i.cfg.PythonBin) {
		return fmt.Errorf("%w: %s still absent after installation", ErrToolMissing, i.cfg.PythonBin)
	}
	return nil
}
