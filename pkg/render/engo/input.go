// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-flightcore/pkg/control"
)

// Button and axis names registered with engo.Input
const (
	ButtonEngine   = "engine"
	ButtonThrottle = "throttle"
	ButtonFlap     = "flap"
	ButtonBrake    = "brake"
	ButtonQuit     = "quit"

	AxisPitch = "pitch"
	AxisRoll  = "roll"
	AxisYaw   = "yaw"
)

var commandButtons = map[control.Command]string{
	control.ToggleEngine:   ButtonEngine,
	control.ToggleThrottle: ButtonThrottle,
	control.ToggleFlap:     ButtonFlap,
	control.ToggleBrake:    ButtonBrake,
}

// InputSource reads pilot commands from engo's input manager. Discrete
// commands use JustPressed so a held key fires once; axes are sampled
// every frame.
type InputSource struct {
	justPressed func(name string) bool
	axisValue   func(name string) float32
}

// NewInputSource creates a command source backed by engo.Input
func NewInputSource() *InputSource {
	return &InputSource{
		justPressed: func(name string) bool { return engo.Input.Button(name).JustPressed() },
		axisValue:   func(name string) float32 { return engo.Input.Axis(name).Value() },
	}
}

// Triggered implements control.CommandSource
func (s *InputSource) Triggered(cmd control.Command) bool {
	name, ok := commandButtons[cmd]
	if !ok {
		return false
	}
	return s.justPressed(name)
}

// Axes implements control.CommandSource
func (s *InputSource) Axes() control.Axes {
	return control.Axes{
		Pitch: float64(s.axisValue(AxisPitch)),
		Roll:  float64(s.axisValue(AxisRoll)),
		Yaw:   float64(s.axisValue(AxisYaw)),
	}
}

// QuitRequested reports whether the quit key was just pressed
func (s *InputSource) QuitRequested() bool {
	return s.justPressed(ButtonQuit)
}

// SetupInputBindings sets up the key bindings for the cockpit
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonEngine, engo.KeyE)
	engo.Input.RegisterButton(ButtonThrottle, engo.KeySpace)
	engo.Input.RegisterButton(ButtonFlap, engo.KeyF)
	engo.Input.RegisterButton(ButtonBrake, engo.KeyB)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape, engo.KeyQ)

	engo.Input.RegisterAxis(AxisPitch, engo.AxisKeyPair{Min: engo.KeyArrowDown, Max: engo.KeyArrowUp})
	engo.Input.RegisterAxis(AxisRoll, engo.AxisKeyPair{Min: engo.KeyArrowLeft, Max: engo.KeyArrowRight})
	engo.Input.RegisterAxis(AxisYaw, engo.AxisKeyPair{Min: engo.KeyA, Max: engo.KeyD})
}
