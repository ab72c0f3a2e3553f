// pkg/control/state.go
package control

import (
	"math"

	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// AircraftControlState is the control state owned by an Aircraft. It is
// created at rest and mutated only by Aircraft.Frame.
type AircraftControlState struct {
	PitchCmd float64 `json:"pitchCmd" msgpack:"pitch_cmd"`
	RollCmd  float64 `json:"rollCmd" msgpack:"roll_cmd"`
	YawCmd   float64 `json:"yawCmd" msgpack:"yaw_cmd"`
	FlapCmd  float64 `json:"flapCmd" msgpack:"flap_cmd"`

	EngineRunning       bool    `json:"engineRunning" msgpack:"engine_running"`
	ThrustPercent       float64 `json:"thrustPercent" msgpack:"thrust_percent"`
	TargetThrustPercent float64 `json:"targetThrustPercent" msgpack:"target_thrust_percent"`
	BrakeTorque         float64 `json:"brakeTorque" msgpack:"brake_torque"`
	PropellerRPM        float64 `json:"propellerRPM" msgpack:"propeller_rpm"`
	PropellerAngle      float64 `json:"propellerAngle" msgpack:"propeller_angle"` // degrees, [0,360)
}

// EngineState returns the engine state machine's current state
func (s AircraftControlState) EngineState() EngineState {
	if s.EngineRunning {
		return EngineRunning
	}
	return EngineOff
}

// BrakesOn reports whether brake torque is applied
func (s AircraftControlState) BrakesOn() bool {
	return s.BrakeTorque > 0
}

// sanitized returns a copy with every value forced into its legal range
func (s AircraftControlState) sanitized(maxRPM float64) AircraftControlState {
	s.PitchCmd = physics.Finite(s.PitchCmd)
	s.RollCmd = physics.Finite(s.RollCmd)
	s.YawCmd = physics.Finite(s.YawCmd)
	s.FlapCmd = physics.Clamp(s.FlapCmd, 0, 1)
	s.ThrustPercent = physics.Clamp(s.ThrustPercent, 0, 1)
	s.TargetThrustPercent = physics.Clamp(s.TargetThrustPercent, 0, 1)
	if !s.EngineRunning {
		s.TargetThrustPercent = 0
	}
	s.BrakeTorque = physics.Clamp(physics.Finite(s.BrakeTorque), 0, math.MaxFloat64)
	s.PropellerRPM = physics.Clamp(s.PropellerRPM, 0, maxRPM)
	s.PropellerAngle = physics.WrapDegrees(physics.Finite(s.PropellerAngle))
	return s
}

// RenderFrame is the rendering collaborator's view of one frame
type RenderFrame struct {
	SpinAxis     physics.Vector3
	DeltaDegrees float64 // rotation about SpinAxis since the previous frame
	AngleDegrees float64 // accumulated propeller angle in [0,360)
}

// HUDState is the read-only projection consumed by a HUD. Airspeed and
// altitude are supplied by the physics collaborator, not computed here.
type HUDState struct {
	ThrustPercent float64
	FlapCmd       float64
	BrakesOn      bool
	EngineRunning bool
	AirspeedMS    float64
	AltitudeM     float64
}

// FrameOutput is produced by every Aircraft.Frame call
type FrameOutput struct {
	Render RenderFrame
	HUD    HUDState
	Phase  SpinPhase
}

// PhysicsOutput is produced by every Aircraft.PhysicsStep call
type PhysicsOutput struct {
	ThrustPercent float64
	Surfaces      []SurfaceCommand
	Wheels        []WheelCommand
}
