// pkg/render/hud.go
package render

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-flightcore/pkg/control"
)

// Unit conversions used by the HUD readouts
const (
	MetersPerSecondToKnots = 1.944
	MetersToFeet           = 3.281
)

// Legend lists the cockpit key bindings shown under the readouts
var Legend = []string{
	"---CONTROLS---",
	"E:Engine  Space:Throttle",
	"F:Flap  B:Brake",
	"Arrows:Stick  A/D:Rudder  C:Center  Q:Quit",
}

// HUDLines returns the readout lines for hud followed by the legend
func HUDLines(hud control.HUDState) []string {
	lines := []string{
		"SPD: " + padInt(int(hud.AirspeedMS*MetersPerSecondToKnots), 3) + " kts",
		"ALT: " + padInt(int(hud.AltitudeM*MetersToFeet), 5) + " ft",
		fmt.Sprintf("THR: %d%%", int(hud.ThrustPercent*100)),
		fmt.Sprintf("FLP: %d%%", int(hud.FlapCmd*100)),
		"BRK: " + onOff(hud.BrakesOn),
		"ENG: " + onOff(hud.EngineRunning),
	}
	return append(lines, Legend...)
}

// FormatHUD renders the HUD as newline-separated text
func FormatHUD(hud control.HUDState) string {
	return strings.Join(HUDLines(hud), "\n")
}

// padInt zero-pads the magnitude of n to width digits, keeping the sign in front
func padInt(n, width int) string {
	if n < 0 {
		return "-" + fmt.Sprintf("%0*d", width, -n)
	}
	return fmt.Sprintf("%0*d", width, n)
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
