package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// realSystemdController implements SystemdController using os/exec to call
// systemctl.
type realSystemdController struct{}

// NewSystemdController returns a SystemdController that calls the real
// systemctl binary.
func NewSystemdController() SystemdController {
	return &realSystemdController{}
}

func (c *realSystemdController) IsAvailable() bool {
	_, err := exec.LookPath("systemctl")
	return err == nil
}

func (c *realSystemdController) DaemonReload() error {
	return c.run("daemon-reload")
}

func (c *realSystemdController) Enable(service string) error {
	return c.run("enable", service)
}

func (c *realSystemdController) Disable(service string) error {
	return c.run("disable", service)
}

func (c *realSystemdController) Start(service string) error {
	return c.run("start", service)
}

func (c *realSystemdController) Stop(service string) error {
	return c.run("stop", service)
}

func (c *realSystemdController) Restart(service string) error {
	return c.run("restart", service)
}

func (c *realSystemdController) IsActive(service string) bool {
	err := exec.Command("systemctl", "is-active", "--quiet", service).Run()
	return err == nil
}

func (c *realSystemdController) Status(service string) (string, error) {
	// systemctl status exits non-zero for inactive or failed units; the
	// output is still the answer the operator asked for.
	output, err := exec.Command("systemctl", "status", service, "--no-pager").CombinedOutput()
	if len(output) > 0 {
		return string(output), nil
	}
	if err != nil {
		return "", fmt.Errorf("service: systemctl status: %w", err)
	}
	return string(output), nil
}

func (c *realSystemdController) run(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("service: systemctl %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}

// journalctlStreamer implements LogStreamer using journalctl attached to
// the caller's stdio.
type journalctlStreamer struct{}

// NewLogStreamer returns a LogStreamer that calls the real journalctl
// binary.
func NewLogStreamer() LogStreamer {
	return journalctlStreamer{}
}

func (journalctlStreamer) Stream(ctx context.Context, service string, follow bool) error {
	journalctl, err := exec.LookPath("journalctl")
	if err != nil {
		return fmt.Errorf("service: journalctl not found: %w", err)
	}

	args := []string{"-u", service, "--no-pager"}
	if follow {
		args = append(args, "-f")
	}

	cmd := exec.CommandContext(ctx, journalctl, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// realRootChecker implements RootChecker using os.Getuid.
type realRootChecker struct{}

// NewRootChecker returns a RootChecker that checks the real process UID.
func NewRootChecker() RootChecker {
	return &realRootChecker{}
}

func (c *realRootChecker) IsRoot() bool {
	return os.Getuid() == 0
}
