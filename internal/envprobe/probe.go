// Package envprobe inspects the host before the fridge application is
// bootstrapped: platform class, usable display endpoint, and presence of
// required tools.
package envprobe

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// PlatformClass classifies the host hardware.
type PlatformClass string

const (
	// PlatformEmbedded is a single-board computer (Raspberry Pi class).
	// Embedded hosts get conservative rendering and extra system packages.
	PlatformEmbedded PlatformClass = "embedded"

	// PlatformGeneric is any other host.
	PlatformGeneric PlatformClass = "generic"
)

// SessionType is the windowing protocol of the current session.
type SessionType string

const (
	SessionX11     SessionType = "x11"
	SessionWayland SessionType = "wayland"
	SessionUnknown SessionType = "unknown"
)

// ErrNoDisplay indicates no graphical endpoint could be discovered. The
// one-shot launch path cannot recover from this.
var ErrNoDisplay = errors.New("envprobe: no display endpoint found")

// Report is the result of a host probe.
type Report struct {
	Platform        PlatformClass
	SessionType     SessionType
	DisplayEndpoint string
}

// DisplayQuerier checks whether a candidate display endpoint answers a
// lightweight query. Abstracted for testability.
type DisplayQuerier interface {
	// Query returns nil if the endpoint responds.
	Query(ctx context.Context, endpoint string) error
}

// XSetQuerier implements DisplayQuerier by running `xset q` against the
// candidate endpoint.
type XSetQuerier struct{}

func (XSetQuerier) Query(ctx context.Context, endpoint string) error {
	cmd := exec.CommandContext(ctx, "xset", "q")
	cmd.Env = append(os.Environ(), "DISPLAY="+endpoint)
	return cmd.Run()
}

// Prober probes the host environment. The zero value is not usable; use
// NewProber.
type Prober struct {
	cpuinfoPath string
	getenv      func(string) string
	querier     DisplayQuerier
	logger      *slog.Logger
}

// Option customizes a Prober, mainly for tests.
type Option func(*Prober)

// WithCPUInfoPath overrides the platform-identification file.
func WithCPUInfoPath(path string) Option {
	return func(p *Prober) { p.cpuinfoPath = path }
}

// WithGetenv overrides environment lookup.
func WithGetenv(fn func(string) string) Option {
	return func(p *Prober) { p.getenv = fn }
}

// WithQuerier overrides the display querier.
func WithQuerier(q DisplayQuerier) Option {
	return func(p *Prober) { p.querier = q }
}

// NewProber creates a Prober with real OS-backed defaults.
func NewProber(logger *slog.Logger, opts ...Option) *Prober {
	p := &Prober{
		cpuinfoPath: "/proc/cpuinfo",
		getenv:      os.Getenv,
		querier:     XSetQuerier{},
		logger:      logger.With("component", "envprobe"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Platform classifies the host by inspecting the platform-identification
// file. A missing or unreadable file classifies as generic.
func (p *Prober) Platform() PlatformClass {
	data, err := os.ReadFile(p.cpuinfoPath)
	if err != nil {
		return PlatformGeneric
	}
	info := string(data)
	if strings.Contains(info, "Raspberry Pi") || strings.Contains(info, "BCM") {
		return PlatformEmbedded
	}
	return PlatformGeneric
}

// Probe runs the full host probe. It fails with ErrNoDisplay when no
// graphical endpoint is discoverable.
func (p *Prober) Probe(ctx context.Context) (Report, error) {
	rep := Report{Platform: p.Platform()}

	// Session metadata short-circuits the probe loop.
	switch strings.ToLower(p.getenv("XDG_SESSION_TYPE")) {
	case "x11":
		rep.SessionType = SessionX11
		rep.DisplayEndpoint = p.getenv("DISPLAY")
		if rep.DisplayEndpoint == "" {
			rep.DisplayEndpoint = ":0"
		}
		p.logger.Info("session type from metadata", "session", rep.SessionType, "endpoint", rep.DisplayEndpoint)
		return rep, nil
	case "wayland":
		rep.SessionType = SessionWayland
		rep.DisplayEndpoint = p.getenv("WAYLAND_DISPLAY")
		if rep.DisplayEndpoint == "" {
			rep.DisplayEndpoint = "wayland-0"
		}
		p.logger.Info("session type from metadata", "session", rep.SessionType, "endpoint", rep.DisplayEndpoint)
		return rep, nil
	}

	rep.SessionType = SessionUnknown

	candidates := []string{}
	if d := p.getenv("DISPLAY"); d != "" {
		candidates = append(candidates, d)
	}
	candidates = append(candidates, ":0", ":1")

	for _, endpoint := range candidates {
		if err := p.querier.Query(ctx, endpoint); err != nil {
			p.logger.Debug("display candidate unresponsive", "endpoint", endpoint, "error", err)
			continue
		}
		rep.DisplayEndpoint = endpoint
		p.logger.Info("display endpoint probed", "endpoint", endpoint)
		return rep, nil
	}

	return rep, ErrNoDisplay
}

// HasTool reports whether the named executable resolves on PATH. It never
// returns an error.
func (p *Prober) HasTool(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
