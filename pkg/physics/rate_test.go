package physics

import (
	"math"
	"testing"
)

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		target   float64
		maxDelta float64
		expected float64
	}{
		{"step up", 0, 1, 0.25, 0.25},
		{"step down", 1, 0, 0.5, 0.5},
		{"snap when close", 0.9, 1, 0.25, 1},
		{"exact distance", 0, 1, 1, 1},
		{"already at target", 0.5, 0.5, 0.1, 0.5},
		{"zero delta holds", 0.3, 1, 0, 0.3},
		{"negative delta holds", 0.3, 1, -1, 0.3},
		{"infinite delta snaps", 0, 2700, math.Inf(1), 2700},
		{"negative range", 0, -1, 0.4, -0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveTowards(tt.current, tt.target, tt.maxDelta)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("MoveTowards(%v, %v, %v) = %v, want %v",
					tt.current, tt.target, tt.maxDelta, got, tt.expected)
			}
		})
	}
}

func TestMoveTowards_NeverOvershoots(t *testing.T) {
	for _, current := range []float64{0, 0.2, 0.5, 0.99, 1} {
		for _, target := range []float64{0, 0.3, 1} {
			for _, delta := range []float64{0.001, 0.1, 0.7, 5} {
				got := MoveTowards(current, target, delta)
				lo, hi := math.Min(current, target), math.Max(current, target)
				if got < lo-1e-12 || got > hi+1e-12 {
					t.Fatalf("MoveTowards(%v, %v, %v) = %v outside [%v, %v]",
						current, target, delta, got, lo, hi)
				}
			}
		}
	}
}

func TestStep(t *testing.T) {
	if got := Step(0, 1, math.Inf(1), 0); got != 1 {
		t.Errorf("unbounded rate with zero dt should snap, got %v", got)
	}
	if got := Step(0, 1, 0.5, 0); got != 0 {
		t.Errorf("zero dt should hold, got %v", got)
	}
	if got := Step(0, 1, 0.5, -1); got != 0 {
		t.Errorf("negative dt should hold, got %v", got)
	}
	if got := Step(0, 1, 0.5, 0.5); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Step(0, 1, 0.5, 0.5) = %v, want 0.25", got)
	}
}

func TestRateFor(t *testing.T) {
	if got := RateFor(2700, 4); math.Abs(got-675) > 1e-9 {
		t.Errorf("RateFor(2700, 4) = %v, want 675", got)
	}
	if got := RateFor(1, 0); !math.IsInf(got, 1) {
		t.Errorf("RateFor with zero duration = %v, want +Inf", got)
	}
	if got := RateFor(1, -2); !math.IsInf(got, 1) {
		t.Errorf("RateFor with negative duration = %v, want +Inf", got)
	}
}

func TestTimeToReach(t *testing.T) {
	if got := TimeToReach(650, 650.0/3); math.Abs(got-3) > 1e-9 {
		t.Errorf("TimeToReach = %v, want 3", got)
	}
	if got := TimeToReach(10, math.Inf(1)); got != 0 {
		t.Errorf("TimeToReach with infinite rate = %v, want 0", got)
	}
	if got := TimeToReach(10, 0); !math.IsInf(got, 1) {
		t.Errorf("TimeToReach with zero rate = %v, want +Inf", got)
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		t        float64
		expected float64
	}{
		{0, 650},
		{1, 2700},
		{0.5, 1675},
		{-1, 650},
		{2, 2700},
	}
	for _, tt := range tests {
		if got := Lerp(650, 2700, tt.t); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Lerp(650, 2700, %v) = %v, want %v", tt.t, got, tt.expected)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Errorf("Clamp high = %v", got)
	}
	if got := Clamp(-0.5, 0, 1); got != 0 {
		t.Errorf("Clamp low = %v", got)
	}
	if got := Clamp(math.NaN(), 0, 1); got != 0 {
		t.Errorf("Clamp NaN = %v", got)
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{725, 5},
		{-90, 270},
		{-720, 0},
	}
	for _, tt := range tests {
		got := WrapDegrees(tt.in)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.expected)
		}
		if got < 0 || got >= 360 {
			t.Errorf("WrapDegrees(%v) = %v outside [0, 360)", tt.in, got)
		}
	}
	if got := WrapDegrees(-1e-20); got < 0 || got >= 360 {
		t.Errorf("WrapDegrees(tiny negative) = %v outside [0, 360)", got)
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) != 0 || Finite(math.Inf(-1)) != 0 || Finite(0.3) != 0.3 {
		t.Error("Finite should zero non-finite values and pass others through")
	}
}
