// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/logging"
)

// NullRenderer discards frames, logging them at debug level. It serves as
// the renderer and HUD of the headless runner.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
	last   control.HUDState
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{
		logger: logger,
	}
}

// RenderPropeller implements sim.Renderer.
func (d *NullRenderer) RenderPropeller(frame control.RenderFrame) {
	d.frames++
	d.logger.Debug(context.Background(), "RenderPropeller called",
		"angle", frame.AngleDegrees,
		"delta", frame.DeltaDegrees,
	)
}

// ShowHUD implements sim.HUDDisplay.
func (d *NullRenderer) ShowHUD(hud control.HUDState) {
	d.last = hud
	d.logger.Debug(context.Background(), "ShowHUD called",
		"thrust", hud.ThrustPercent,
		"engine", hud.EngineRunning,
		"brakes", hud.BrakesOn,
	)
}

// Frames returns how many propeller frames were rendered
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

// LastHUD returns the most recent HUD state
func (d *NullRenderer) LastHUD() control.HUDState {
	return d.last
}
