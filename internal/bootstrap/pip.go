package bootstrap

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// execPackageManager implements PackageManager by invoking pip, python and
// apt-get as subprocesses.
type execPackageManager struct {
	pythonBin string
}

// NewPackageManager returns a PackageManager that calls the real pip and
// apt-get binaries. pythonBin is the interpreter used to create the venv.
func NewPackageManager(pythonBin string) PackageManager {
	if pythonBin == "" {
		pythonBin = DefaultPythonBin
	}
	return &execPackageManager{pythonBin: pythonBin}
}

func (m *execPackageManager) CreateVenv(ctx context.Context, dir string) error {
	return m.run(ctx, m.pythonBin, "-m", "venv", dir)
}

func (m *execPackageManager) UpgradePip(ctx context.Context, venvDir string) error {
	return m.run(ctx, venvPip(venvDir), "install", "--upgrade", "pip")
}

func (m *execPackageManager) InstallManifest(ctx context.Context, venvDir, manifestPath string) error {
	return m.run(ctx, venvPip(venvDir), "install", "-r", manifestPath)
}

func (m *execPackageManager) InstallManifestUser(ctx context.Context, manifestPath string) error {
	return m.run(ctx, m.pythonBin, "-m", "pip", "install", "--user", "-r", manifestPath)
}

func (m *execPackageManager) InstallManifestElevated(ctx context.Context, manifestPath string) error {
	return m.run(ctx, "sudo", m.pythonBin, "-m", "pip", "install", "-r", manifestPath)
}

func (m *execPackageManager) InstallSystemPackages(ctx context.Context, packages ...string) error {
	args := append([]string{"apt-get", "install", "-y"}, packages...)
	return m.run(ctx, "sudo", args...)
}

func (m *execPackageManager) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("bootstrap: %s %s: %s: %w",
			name, strings.Join(args, " "), strings.TrimSpace(string(output)), err)
	}
	return nil
}

// venvPip is the pip binary inside the isolated environment.
func venvPip(venvDir string) string {
	return filepath.Join(venvDir, "bin", "pip")
}

// VenvPython is the interpreter inside the isolated environment. The
// launcher uses it as the GUI entry-point executable.
func VenvPython(venvDir string) string {
	return filepath.Join(venvDir, "bin", "python")
}
