package control

import (
	"math"
	"testing"

	"github.com/opd-ai/go-flightcore/pkg/config"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

// testConfig uses round numbers so that 0.5s and 0.25s frames land on
// exact values.
func testConfig() *config.AircraftConfig {
	cfg := config.DefaultConfig()
	cfg.Engine.StartUpTime = 2
	cfg.Engine.ShutDownTime = 4
	cfg.Propeller.IdleRPM = 600
	cfg.Propeller.MaxRPM = 2400
	cfg.Propeller.SpoolUpTime = 4
	cfg.Propeller.SpoolDownTime = 8
	cfg.Throttle.SpoolUpTime = 2
	cfg.Throttle.SpoolDownTime = 1
	return cfg
}

func testModel() PropellerModel {
	return PropellerModel{
		IdleRPM:            600,
		MaxRPM:             2400,
		EngineStartUpTime:  2,
		EngineShutDownTime: 4,
		SpoolUpTime:        4,
		SpoolDownTime:      8,
	}
}

func newTestAircraft(t *testing.T, cfg *config.AircraftConfig) *Aircraft {
	t.Helper()
	a, err := NewAircraft(cfg, nil)
	if err != nil {
		t.Fatalf("NewAircraft failed: %v", err)
	}
	return a
}
