package envprobe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// mockQuerier responds only for the endpoints in responsive.
type mockQuerier struct {
	responsive map[string]bool
	queried    []string
}

func (m *mockQuerier) Query(_ context.Context, endpoint string) error {
	m.queried = append(m.queried, endpoint)
	if m.responsive[endpoint] {
		return nil
	}
	return errors.New("no response")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// envMap turns a map into a getenv func.
func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeCPUInfo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpuinfo")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}
	return path
}

func TestPlatform_Classification(t *testing.T) {
	tests := []struct {
		name    string
		cpuinfo string
		want    PlatformClass
	}{
		{"raspberry pi marker", "processor\t: 0\nModel\t\t: Raspberry Pi 4 Model B\n", PlatformEmbedded},
		{"bcm marker", "Hardware\t: BCM2711\n", PlatformEmbedded},
		{"generic x86", "vendor_id\t: GenuineIntel\nmodel name\t: Core i7\n", PlatformGeneric},
		{"empty file", "", PlatformGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProber(testLogger(), WithCPUInfoPath(writeCPUInfo(t, tt.cpuinfo)))
			if got := p.Platform(); got != tt.want {
				t.Errorf("Platform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlatform_MissingFileIsGeneric(t *testing.T) {
	p := NewProber(testLogger(), WithCPUInfoPath(filepath.Join(t.TempDir(), "absent")))
	if got := p.Platform(); got != PlatformGeneric {
		t.Errorf("Platform() = %v, want generic for missing file", got)
	}
}

func TestProbe_SessionMetadataShortCircuits(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantSession  SessionType
		wantEndpoint string
	}{
		{
			"x11 with display",
			map[string]string{"XDG_SESSION_TYPE": "x11", "DISPLAY": ":7"},
			SessionX11, ":7",
		},
		{
			"x11 without display",
			map[string]string{"XDG_SESSION_TYPE": "x11"},
			SessionX11, ":0",
		},
		{
			"wayland with socket",
			map[string]string{"XDG_SESSION_TYPE": "wayland", "WAYLAND_DISPLAY": "wayland-1"},
			SessionWayland, "wayland-1",
		},
		{
			"wayland without socket",
			map[string]string{"XDG_SESSION_TYPE": "wayland"},
			SessionWayland, "wayland-0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier := &mockQuerier{}
			p := NewProber(testLogger(),
				WithCPUInfoPath(writeCPUInfo(t, "")),
				WithGetenv(envMap(tt.env)),
				WithQuerier(querier),
			)
			rep, err := p.Probe(context.Background())
			if err != nil {
				t.Fatalf("Probe() = %v", err)
			}
			if rep.SessionType != tt.wantSession {
				t.Errorf("SessionType = %v, want %v", rep.SessionType, tt.wantSession)
			}
			if rep.DisplayEndpoint != tt.wantEndpoint {
				t.Errorf("DisplayEndpoint = %q, want %q", rep.DisplayEndpoint, tt.wantEndpoint)
			}
			if len(querier.queried) != 0 {
				t.Errorf("probed %v despite session metadata", querier.queried)
			}
		})
	}
}

func TestProbe_TriesCandidatesInOrder(t *testing.T) {
	querier := &mockQuerier{responsive: map[string]bool{":1": true}}
	p := NewProber(testLogger(),
		WithCPUInfoPath(writeCPUInfo(t, "")),
		WithGetenv(envMap(nil)),
		WithQuerier(querier),
	)

	rep, err := p.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe() = %v", err)
	}
	if rep.DisplayEndpoint != ":1" {
		t.Errorf("DisplayEndpoint = %q, want :1", rep.DisplayEndpoint)
	}
	if len(querier.queried) != 2 || querier.queried[0] != ":0" || querier.queried[1] != ":1" {
		t.Errorf("queried = %v, want [:0 :1]", querier.queried)
	}
}

func TestProbe_EnvDisplayProbedFirst(t *testing.T) {
	querier := &mockQuerier{responsive: map[string]bool{":5": true}}
	p := NewProber(testLogger(),
		WithCPUInfoPath(writeCPUInfo(t, "")),
		WithGetenv(envMap(map[string]string{"DISPLAY": ":5"})),
		WithQuerier(querier),
	)

	rep, err := p.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe() = %v", err)
	}
	if rep.DisplayEndpoint != ":5" {
		t.Errorf("DisplayEndpoint = %q, want :5", rep.DisplayEndpoint)
	}
	if len(querier.queried) != 1 {
		t.Errorf("queried = %v, want the env endpoint only", querier.queried)
	}
}

func TestProbe_NoDisplay(t *testing.T) {
	querier := &mockQuerier{}
	p := NewProber(testLogger(),
		WithCPUInfoPath(writeCPUInfo(t, "")),
		WithGetenv(envMap(nil)),
		WithQuerier(querier),
	)

	_, err := p.Probe(context.Background())
	if !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("Probe() = %v, want ErrNoDisplay", err)
	}
}

func TestHasTool(t *testing.T) {
	p := NewProber(testLogger())
	if !p.HasTool("sh") {
		t.Error("HasTool(sh) = false, want true")
	}
	if p.HasTool("definitely-not-a-real-tool-xyz") {
		t.Error("HasTool(nonexistent) = true, want false")
	}
}
