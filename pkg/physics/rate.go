// pkg/physics/rate.go
package physics

import "math"

// MoveTowards moves current toward target by at most maxDelta and never
// overshoots. An infinite maxDelta snaps to target.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.IsInf(maxDelta, 1) {
		return target
	}
	if maxDelta <= 0 || math.IsNaN(maxDelta) {
		return current
	}
	diff := target - current
	if math.Abs(diff) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, diff)
}

// Step advances current toward target at rate units per second for dt
// seconds. It guards the Inf*0 case so an unbounded rate always snaps.
func Step(current, target, rate, dt float64) float64 {
	if math.IsInf(rate, 1) {
		return target
	}
	if dt <= 0 {
		return current
	}
	return MoveTowards(current, target, rate*dt)
}

// RateFor returns the rate needed to traverse span in duration seconds.
// A non-positive duration is an instantaneous traversal (+Inf).
func RateFor(span, duration float64) float64 {
	if duration <= 0 {
		return math.Inf(1)
	}
	return span / duration
}

// TimeToReach returns how long it takes to cover distance at rate.
func TimeToReach(distance, rate float64) float64 {
	if math.IsInf(rate, 1) {
		return 0
	}
	if rate <= 0 {
		return math.Inf(1)
	}
	return math.Abs(distance) / rate
}

// Lerp linearly interpolates between a and b, t clamped to [0,1]
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp(t, 0, 1)
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapDegrees wraps an angle into [0, 360)
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
