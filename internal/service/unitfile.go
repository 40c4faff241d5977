package service

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/coreos/go-systemd/v22/unit"
)

// UnitDescriptor describes the supervised service. It is synthesized once
// at install time; changing it requires uninstall followed by install.
type UnitDescriptor struct {
	Name             string
	Description      string
	User             string
	WorkingDirectory string
	ExecStart        string
	Environment      map[string]string
	RestartSec       int
}

// BuildUnitFile serializes the descriptor into systemd unit-file form. It
// performs no I/O and contacts no supervisor, so it is unit-testable in
// isolation.
func BuildUnitFile(d UnitDescriptor) (string, error) {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", d.Description),
		unit.NewUnitOption("Unit", "After", "graphical.target network-online.target"),
		unit.NewUnitOption("Unit", "Wants", "network-online.target"),
		unit.NewUnitOption("Service", "Type", "simple"),
		unit.NewUnitOption("Service", "User", d.User),
		unit.NewUnitOption("Service", "WorkingDirectory", d.WorkingDirectory),
	}

	keys := make([]string, 0, len(d.Environment))
	for k := range d.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, unit.NewUnitOption("Service", "Environment",
			fmt.Sprintf("%s=%s", k, d.Environment[k])))
	}

	opts = append(opts,
		unit.NewUnitOption("Service", "ExecStart", d.ExecStart),
		unit.NewUnitOption("Service", "Restart", "on-failure"),
		unit.NewUnitOption("Service", "RestartSec", strconv.Itoa(d.RestartSec)),
		unit.NewUnitOption("Install", "WantedBy", "graphical.target"),
	)

	data, err := io.ReadAll(unit.Serialize(opts))
	if err != nil {
		return "", fmt.Errorf("service: serialize unit: %w", err)
	}
	return string(data), nil
}

// NewDescriptor synthesizes the unit descriptor from the invoking context:
// the user the GUI runs as, the application directory, and the fixed
// ExecStart convention of re-invoking this binary's run command.
func NewDescriptor(cfg Config, user, workDir, selfPath, displayEndpoint string) UnitDescriptor {
	env := map[string]string{
		"DISPLAY":    displayEndpoint,
		"XAUTHORITY": fmt.Sprintf("/home/%s/.Xauthority", user),
	}
	if displayEndpoint == "" {
		env["DISPLAY"] = ":0"
	}
	return UnitDescriptor{
		Name:             cfg.ServiceName,
		Description:      "Fridge inventory application",
		User:             user,
		WorkingDirectory: workDir,
		ExecStart:        fmt.Sprintf("%s run --dir %s", selfPath, workDir),
		Environment:      env,
		RestartSec:       cfg.RestartSec,
	}
}
