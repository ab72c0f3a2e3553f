// pkg/control/aircraft.go
package control

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-flightcore/pkg/config"
	"github.com/opd-ai/go-flightcore/pkg/event"
	"github.com/opd-ai/go-flightcore/pkg/logging"
	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// Aircraft owns an AircraftControlState and the models that advance it.
// It is not safe for concurrent use; the host loop is its only writer.
type Aircraft struct {
	state AircraftControlState

	throttle    ThrottleRamp
	propeller   PropellerModel
	mixer       Mixer
	wheels      WheelInterface
	flapSetting float64
	spinAxis    physics.Vector3

	surfaces  []*ControlSurface
	wheelList []*Wheel

	lastPhase SpinPhase
	eventBus  *event.Bus
	logger    *logging.Logger
}

// NewAircraft creates an aircraft at rest (engine off, zero thrust and RPM)
// and registers the surfaces and wheels listed in cfg. The event bus may be
// nil.
func NewAircraft(cfg *config.AircraftConfig, bus *event.Bus) (*Aircraft, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil aircraft configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	spinAxis := cfg.Propeller.SpinAxis.Normalize()
	if spinAxis.IsZero() {
		spinAxis = physics.Forward
	}

	a := &Aircraft{
		throttle: ThrottleRamp{
			SpoolUpTime:   cfg.Throttle.SpoolUpTime,
			SpoolDownTime: cfg.Throttle.SpoolDownTime,
		},
		propeller: PropellerModel{
			IdleRPM:            cfg.Propeller.IdleRPM,
			MaxRPM:             cfg.Propeller.MaxRPM,
			EngineStartUpTime:  cfg.Engine.StartUpTime,
			EngineShutDownTime: cfg.Engine.ShutDownTime,
			SpoolUpTime:        cfg.Propeller.SpoolUpTime,
			SpoolDownTime:      cfg.Propeller.SpoolDownTime,
		},
		mixer: Mixer{
			PitchSensitivity: cfg.Controls.PitchSensitivity,
			RollSensitivity:  cfg.Controls.RollSensitivity,
			YawSensitivity:   cfg.Controls.YawSensitivity,
		},
		wheels: WheelInterface{
			OnTorque:        cfg.Brakes.OnTorque,
			IdleDriveTorque: cfg.Brakes.IdleDriveTorque,
		},
		flapSetting: cfg.Flaps.DeployedSetting,
		spinAxis:    spinAxis,
		eventBus:    bus,
		logger:      logging.NewLogger(),
	}

	for _, sc := range cfg.Surfaces {
		role, err := ParseRole(sc.Role)
		if err != nil {
			return nil, logging.WrapError(err, "surface %s", sc.ID)
		}
		a.RegisterSurface(&ControlSurface{ID: sc.ID, Active: sc.Active, Role: role, Gain: sc.Gain})
	}
	for _, wc := range cfg.Wheels {
		a.RegisterWheel(&Wheel{ID: wc.ID})
	}

	return a, nil
}

// SetLogger replaces the aircraft's logger
func (a *Aircraft) SetLogger(logger *logging.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// RegisterSurface adds a control surface binding. The binding stays owned
// by the caller, which may toggle Active or change Gain between steps.
func (a *Aircraft) RegisterSurface(surface *ControlSurface) {
	a.surfaces = append(a.surfaces, surface)
}

// RegisterWheel adds a wheel actuator
func (a *Aircraft) RegisterWheel(wheel *Wheel) {
	a.wheelList = append(a.wheelList, wheel)
}

// Surfaces returns the registered surface bindings
func (a *Aircraft) Surfaces() []*ControlSurface {
	return a.surfaces
}

// Wheels returns the registered wheels
func (a *Aircraft) Wheels() []*Wheel {
	return a.wheelList
}

// State returns a copy of the current control state
func (a *Aircraft) State() AircraftControlState {
	return a.state
}

// Phase returns the propeller phase of the most recent frame
func (a *Aircraft) Phase() SpinPhase {
	return a.lastPhase
}

// Restore replaces the control state, e.g. from a saved snapshot. Values
// are clamped to their legal ranges.
func (a *Aircraft) Restore(state AircraftControlState) {
	a.state = state.sanitized(a.propeller.MaxRPM)
	a.lastPhase = PhaseSteady
}

// Frame advances the aircraft by one variable-rate frame of dt seconds.
// The same dt drives the throttle ramp, the propeller model and the
// propeller rotation. Negative or non-finite dt is treated as zero.
func (a *Aircraft) Frame(dt float64, cmd CommandSnapshot) FrameOutput {
	dt = physics.Finite(dt)
	if dt < 0 {
		dt = 0
	}

	a.applyDiscreteCommands(cmd)

	a.state.PitchCmd = cmd.Axes.Pitch
	a.state.RollCmd = cmd.Axes.Roll
	a.state.YawCmd = cmd.Axes.Yaw

	a.state.ThrustPercent = a.throttle.Update(a.state.ThrustPercent, a.state.TargetThrustPercent, dt)

	rpm, phase := a.propeller.Update(a.state.PropellerRPM, a.state.EngineRunning, a.state.ThrustPercent, dt)
	a.state.PropellerRPM = rpm
	a.lastPhase = phase

	angle, delta := a.propeller.Rotate(a.state.PropellerAngle, rpm, dt)
	a.state.PropellerAngle = angle

	return FrameOutput{
		Render: RenderFrame{
			SpinAxis:     a.spinAxis,
			DeltaDegrees: delta,
			AngleDegrees: angle,
		},
		HUD:   a.HUD(),
		Phase: phase,
	}
}

// applyDiscreteCommands runs the engine state machine and the flap and
// brake toggles, publishing an event for every change.
func (a *Aircraft) applyDiscreteCommands(cmd CommandSnapshot) {
	ctx := context.Background()

	transition := StepEngine(&a.state, cmd)
	if transition.EngineChanged {
		a.logger.Debug(ctx, "engine state changed", "engine", a.state.EngineState().String())
		a.eventBus.Publish(event.NewEngineEvent(a, a.state.EngineRunning))
	}
	if transition.TargetChanged {
		a.logger.Debug(ctx, "throttle target changed",
			"from", transition.PreviousTarget,
			"to", a.state.TargetThrustPercent,
		)
		a.eventBus.Publish(event.NewActuatorEvent(event.ThrottleTargetChanged, a,
			transition.PreviousTarget, a.state.TargetThrustPercent))
	}

	if cmd.ToggleFlap {
		previous := a.state.FlapCmd
		if previous > 0 {
			a.state.FlapCmd = 0
		} else {
			a.state.FlapCmd = a.flapSetting
		}
		if a.state.FlapCmd != previous {
			a.eventBus.Publish(event.NewActuatorEvent(event.FlapsChanged, a, previous, a.state.FlapCmd))
		}
	}

	if cmd.ToggleBrake {
		previous := a.state.BrakeTorque
		a.state.BrakeTorque = a.wheels.Toggle(previous)
		if a.state.BrakeTorque != previous {
			a.eventBus.Publish(event.NewActuatorEvent(event.BrakesChanged, a, previous, a.state.BrakeTorque))
		}
	}
}

// PhysicsStep produces the fixed-rate actuator commands from the current
// state: thrust hand-off, surface deflections and wheel torques.
func (a *Aircraft) PhysicsStep() PhysicsOutput {
	return PhysicsOutput{
		ThrustPercent: a.state.ThrustPercent,
		Surfaces:      a.mixer.Mix(a.surfaces, a.mixerInput()),
		Wheels:        a.wheels.Commands(a.wheelList, a.state.BrakeTorque),
	}
}

// PreviewSurfaces mixes the current commands without advancing time, for
// editors that show surface deflection while paused.
func (a *Aircraft) PreviewSurfaces() []SurfaceCommand {
	return a.mixer.Mix(a.surfaces, a.mixerInput())
}

// HUD returns the HUD projection of the current state
func (a *Aircraft) HUD() HUDState {
	return HUDState{
		ThrustPercent: a.state.ThrustPercent,
		FlapCmd:       a.state.FlapCmd,
		BrakesOn:      a.state.BrakesOn(),
		EngineRunning: a.state.EngineRunning,
	}
}

func (a *Aircraft) mixerInput() MixerInput {
	return MixerInput{
		Pitch: a.state.PitchCmd,
		Roll:  a.state.RollCmd,
		Yaw:   a.state.YawCmd,
		Flap:  a.state.FlapCmd,
	}
}
