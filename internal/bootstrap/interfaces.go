package bootstrap

import "context"

// PackageManager abstracts the package-manager invocations made during
// bootstrap for testability. Implementations block until the underlying
// command completes.
type PackageManager interface {
	// CreateVenv creates the isolated environment at dir.
	CreateVenv(ctx context.Context, dir string) error

	// UpgradePip upgrades the package manager inside the environment.
	UpgradePip(ctx context.Context, venvDir string) error

	// InstallManifest installs the manifest into the environment (tier 1).
	InstallManifest(ctx context.Context, venvDir, manifestPath string) error

	// InstallManifestUser installs the manifest into the user scope,
	// outside the environment (tier 2).
	InstallManifestUser(ctx context.Context, manifestPath string) error

	// InstallManifestElevated installs the manifest with administrative
	// privileges (tier 3, last resort).
	InstallManifestElevated(ctx context.Context, manifestPath string) error

	// InstallSystemPackages installs OS packages via the system package
	// manager, escalating privileges as needed.
	InstallSystemPackages(ctx context.Context, packages ...string) error
}
