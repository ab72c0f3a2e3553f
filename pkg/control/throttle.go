// pkg/control/throttle.go
package control

import (
	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// ThrottleRamp rate-limits the actual thrust fraction toward its commanded
// target. Spool times are the seconds needed to cross the full 0..1 range;
// zero means instantaneous.
type ThrottleRamp struct {
	SpoolUpTime   float64
	SpoolDownTime float64
}

// Rate returns the thrust change per second for moving from current to target
func (r ThrottleRamp) Rate(current, target float64) float64 {
	if current < target {
		return physics.RateFor(1, r.SpoolUpTime)
	}
	return physics.RateFor(1, r.SpoolDownTime)
}

// Update returns the thrust fraction after dt seconds. The result lies
// between current and target and inside [0,1].
func (r ThrottleRamp) Update(current, target, dt float64) float64 {
	target = physics.Clamp(target, 0, 1)
	next := physics.Step(current, target, r.Rate(current, target), dt)
	return physics.Clamp(next, 0, 1)
}
