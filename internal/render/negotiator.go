// Package render selects the graphics configuration for the GUI process.
// It produces an explicit environment-override map; nothing here mutates
// process-wide state or launches anything.
package render

import (
	"github.com/fridgepi/fridgectl/internal/envprobe"
)

// Embedded GPU drivers are unreliable with the GUI framework, so embedded
// hosts are pinned to software rendering up front instead of waiting for a
// failed launch attempt.
var embeddedOverrides = map[string]string{
	"MESA_GL_VERSION_OVERRIDE": "3.3",
	"LIBGL_ALWAYS_SOFTWARE":    "1",
	"GALLIUM_DRIVER":           "llvmpipe",
	"LIBGL_DRI3_DISABLE":       "1",
}

// Negotiate returns the environment overrides for launching the GUI process
// on the probed host: the windowing-integration platform plugin, the display
// endpoint, and (on embedded hosts) the software-rendering pins.
func Negotiate(platform envprobe.PlatformClass, session envprobe.SessionType, displayEndpoint string) map[string]string {
	overrides := make(map[string]string)

	if platform == envprobe.PlatformEmbedded {
		for k, v := range embeddedOverrides {
			overrides[k] = v
		}
	}

	switch session {
	case envprobe.SessionWayland:
		overrides["QT_QPA_PLATFORM"] = "wayland"
		if displayEndpoint != "" {
			overrides["WAYLAND_DISPLAY"] = displayEndpoint
		}
	case envprobe.SessionX11:
		overrides["QT_QPA_PLATFORM"] = "xcb"
		if displayEndpoint != "" {
			overrides["DISPLAY"] = displayEndpoint
		}
	default:
		// Unknown session: a probed endpoint means an X server answered;
		// with no endpoint at all, xcb remains the least surprising plugin.
		overrides["QT_QPA_PLATFORM"] = "xcb"
		if displayEndpoint != "" {
			overrides["DISPLAY"] = displayEndpoint
		}
	}

	return overrides
}
