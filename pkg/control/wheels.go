// pkg/control/wheels.go
package control

// Wheel is a wheel actuator registered by the physics collaborator
type Wheel struct {
	ID string
}

// WheelCommand is the torque pair sent to one wheel each physics step
type WheelCommand struct {
	ID          string
	BrakeTorque float64
	DriveTorque float64
}

// WheelInterface broadcasts the discrete brake torque to every wheel.
//
// IdleDriveTorque is a small non-zero motor torque sent alongside the
// brake. Wheel colliders in the consuming physics engine go dormant with
// zero actuation and then ignore brake changes; the idle torque keeps them
// awake. It is not a control decision.
type WheelInterface struct {
	OnTorque        float64
	IdleDriveTorque float64
}

// Toggle flips brake torque between zero and OnTorque
func (w WheelInterface) Toggle(current float64) float64 {
	if current > 0 {
		return 0
	}
	return w.OnTorque
}

// Commands returns the same torque pair for every registered wheel.
// Nil wheels are skipped.
func (w WheelInterface) Commands(wheels []*Wheel, brakeTorque float64) []WheelCommand {
	commands := make([]WheelCommand, 0, len(wheels))
	for _, wheel := range wheels {
		if wheel == nil {
			continue
		}
		commands = append(commands, WheelCommand{
			ID:          wheel.ID,
			BrakeTorque: brakeTorque,
			DriveTorque: w.IdleDriveTorque,
		})
	}
	return commands
}
