// pkg/control/propeller.go
package control

import (
	"math"

	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// SpinPhase names the rate regime the propeller used in a frame
type SpinPhase int

const (
	PhaseSteady    SpinPhase = iota // at target
	PhaseStartUp                    // increasing, below idle RPM
	PhaseSpoolUp                    // increasing, at or above idle RPM
	PhaseSpoolDown                  // decreasing with the engine running
	PhaseShutDown                   // decreasing with the engine off
)

func (p SpinPhase) String() string {
	switch p {
	case PhaseStartUp:
		return "start_up"
	case PhaseSpoolUp:
		return "spool_up"
	case PhaseSpoolDown:
		return "spool_down"
	case PhaseShutDown:
		return "shut_down"
	default:
		return "steady"
	}
}

// PropellerModel derives a target RPM from engine state and thrust and
// rate-limits the actual RPM toward it. All times are in seconds; a zero
// time makes the corresponding phase instantaneous.
type PropellerModel struct {
	IdleRPM            float64
	MaxRPM             float64
	EngineStartUpTime  float64
	EngineShutDownTime float64
	SpoolUpTime        float64
	SpoolDownTime      float64
}

// TargetRPM is idle..max blended by thrust while running, otherwise zero
func (m PropellerModel) TargetRPM(running bool, thrustPercent float64) float64 {
	if !running {
		return 0
	}
	return physics.Lerp(m.IdleRPM, m.MaxRPM, thrustPercent)
}

// Phase selects the rate regime for moving from rpm to target
func (m PropellerModel) Phase(rpm, target float64, running bool) SpinPhase {
	switch {
	case rpm < target && rpm < m.IdleRPM:
		return PhaseStartUp
	case rpm < target:
		return PhaseSpoolUp
	case rpm > target && running:
		return PhaseSpoolDown
	case rpm > target:
		return PhaseShutDown
	default:
		return PhaseSteady
	}
}

// Rate returns the RPM change per second used in phase
func (m PropellerModel) Rate(phase SpinPhase) float64 {
	switch phase {
	case PhaseStartUp:
		return physics.RateFor(m.IdleRPM, m.EngineStartUpTime)
	case PhaseSpoolUp:
		return physics.RateFor(m.MaxRPM, m.SpoolUpTime)
	case PhaseSpoolDown:
		return physics.RateFor(m.MaxRPM, m.SpoolDownTime)
	case PhaseShutDown:
		return physics.RateFor(m.MaxRPM, m.EngineShutDownTime)
	default:
		return 0
	}
}

// Update advances rpm by dt seconds and returns the new RPM together with
// the phase it ended in.
//
// When a start-up crosses the idle threshold inside the frame, the frame is
// split at the crossing: start-up rate up to idle, spool-up rate for the
// remainder. RPM stays continuous; only its slope changes at idle.
func (m PropellerModel) Update(rpm float64, running bool, thrustPercent, dt float64) (float64, SpinPhase) {
	target := m.TargetRPM(running, thrustPercent)
	phase := m.Phase(rpm, target, running)

	if phase == PhaseStartUp && target > m.IdleRPM {
		toIdle := physics.TimeToReach(m.IdleRPM-rpm, m.Rate(PhaseStartUp))
		if toIdle < dt || math.IsInf(m.Rate(PhaseStartUp), 1) {
			rpm = m.IdleRPM
			dt = math.Max(dt-toIdle, 0)
			phase = PhaseSpoolUp
		}
	}

	rpm = physics.Step(rpm, target, m.Rate(phase), dt)
	return physics.Clamp(rpm, 0, math.Max(m.MaxRPM, 0)), phase
}

// Rotate integrates the propeller angle for dt seconds at rpm. It returns
// the wrapped angle and the unwrapped rotation applied this frame.
func (m PropellerModel) Rotate(angle, rpm, dt float64) (float64, float64) {
	if dt <= 0 {
		return physics.WrapDegrees(angle), 0
	}
	delta := rpm * 360 / 60 * dt
	return physics.WrapDegrees(angle + delta), delta
}
