package service

import "testing"

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, DefaultServiceName)
	}
	if want := "/etc/systemd/system/fridge-app.service"; cfg.UnitFilePath != want {
		t.Errorf("UnitFilePath = %q, want %q", cfg.UnitFilePath, want)
	}
	if cfg.RestartSec != DefaultRestartSec {
		t.Errorf("RestartSec = %d, want %d", cfg.RestartSec, DefaultRestartSec)
	}
}

func TestConfig_UnitPathFollowsServiceName(t *testing.T) {
	cfg := Config{ServiceName: "fridge"}
	cfg.ApplyDefaults()

	if want := "/etc/systemd/system/fridge.service"; cfg.UnitFilePath != want {
		t.Errorf("UnitFilePath = %q, want %q", cfg.UnitFilePath, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil after defaults", err)
	}

	bad := Config{ServiceName: "x", UnitFilePath: "/tmp/x.service", RestartSec: -1}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil, want error for negative RestartSec")
	}
}
