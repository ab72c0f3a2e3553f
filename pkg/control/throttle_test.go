package control

import (
	"math"
	"testing"
)

func TestThrottleRamp_Update(t *testing.T) {
	ramp := ThrottleRamp{SpoolUpTime: 2, SpoolDownTime: 1}

	tests := []struct {
		name    string
		current float64
		target  float64
		dt      float64
		want    float64
	}{
		{"spool up", 0, 1, 0.5, 0.25},
		{"spool down", 1, 0, 0.25, 0.75},
		{"reaches target", 0.9, 1, 10, 1},
		{"zero dt holds", 0.5, 1, 0, 0.5},
		{"negative dt holds", 0.5, 0, -1, 0.5},
		{"at target", 1, 1, 0.5, 1},
		{"target above range", 0, 2, 100, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ramp.Update(tc.current, tc.target, tc.dt)
			if !approxEqual(got, tc.want) {
				t.Errorf("Update(%v, %v, %v) = %v, want %v", tc.current, tc.target, tc.dt, got, tc.want)
			}
		})
	}
}

func TestThrottleRamp_ZeroSpoolTimeSnaps(t *testing.T) {
	ramp := ThrottleRamp{}

	for _, dt := range []float64{0, 0.016, 1} {
		if got := ramp.Update(0, 1, dt); got != 1 {
			t.Errorf("dt=%v: spool up = %v, want 1", dt, got)
		}
		if got := ramp.Update(1, 0, dt); got != 0 {
			t.Errorf("dt=%v: spool down = %v, want 0", dt, got)
		}
	}
}

func TestThrottleRamp_Monotonic(t *testing.T) {
	ramp := ThrottleRamp{SpoolUpTime: 3, SpoolDownTime: 2}
	thrust := 0.0
	for i := 0; i < 400; i++ {
		next := ramp.Update(thrust, 1, 1.0/60)
		if next < thrust || next > 1 || math.IsNaN(next) {
			t.Fatalf("frame %d: thrust went from %v to %v", i, thrust, next)
		}
		thrust = next
	}
	if thrust != 1 {
		t.Errorf("thrust after 400 frames = %v, want 1", thrust)
	}
}
