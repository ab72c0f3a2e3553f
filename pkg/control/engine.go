// pkg/control/engine.go
package control

// EngineState is the binary engine run state
type EngineState int

const (
	EngineOff EngineState = iota
	EngineRunning
)

func (s EngineState) String() string {
	if s == EngineRunning {
		return "running"
	}
	return "off"
}

// EngineTransition records what the engine state machine changed in a frame
type EngineTransition struct {
	EngineChanged  bool
	TargetChanged  bool
	PreviousTarget float64
}

// StepEngine applies the engine and throttle toggles of one snapshot.
//
// The throttle toggle is evaluated against the run state at the start of
// the frame, so the two toggles give the same result in either order: a
// throttle toggle while off is ignored even if the engine starts in the
// same frame, and stopping the engine always leaves the target at zero.
func StepEngine(state *AircraftControlState, cmd CommandSnapshot) EngineTransition {
	wasRunning := state.EngineRunning
	transition := EngineTransition{PreviousTarget: state.TargetThrustPercent}

	if cmd.ToggleThrottle && wasRunning {
		if state.TargetThrustPercent > 0 {
			state.TargetThrustPercent = 0
		} else {
			state.TargetThrustPercent = 1
		}
	}

	if cmd.ToggleEngine {
		state.EngineRunning = !state.EngineRunning
		transition.EngineChanged = true
	}

	if !state.EngineRunning {
		state.TargetThrustPercent = 0
	}

	transition.TargetChanged = state.TargetThrustPercent != transition.PreviousTarget
	return transition
}
