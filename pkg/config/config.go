// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// ErrInvalidConfig is returned by Validate when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid aircraft configuration")

// AircraftConfig contains configuration for a simulated aircraft
type AircraftConfig struct {
	Version    string           `json:"version"`
	Name       string           `json:"name"`
	Controls   ControlsConfig   `json:"controls"`
	Engine     EngineConfig     `json:"engine"`
	Propeller  PropellerConfig  `json:"propeller"`
	Throttle   ThrottleConfig   `json:"throttle"`
	Brakes     BrakeConfig      `json:"brakes"`
	Flaps      FlapConfig       `json:"flaps"`
	Surfaces   []SurfaceConfig  `json:"surfaces"`
	Wheels     []WheelConfig    `json:"wheels"`
	Simulation SimulationConfig `json:"simulation"`
	Recorder   RecorderConfig   `json:"recorder"`
	Service    ServiceConfig    `json:"service"`
}

// ControlsConfig contains per-axis stick sensitivities
type ControlsConfig struct {
	PitchSensitivity float64 `json:"pitchSensitivity"`
	RollSensitivity  float64 `json:"rollSensitivity"`
	YawSensitivity   float64 `json:"yawSensitivity"`
}

// EngineConfig contains engine start and stop timing in seconds
type EngineConfig struct {
	StartUpTime  float64 `json:"startUpTime"`
	ShutDownTime float64 `json:"shutDownTime"`
}

// PropellerConfig contains propeller RPM limits and spool timing
type PropellerConfig struct {
	IdleRPM       float64         `json:"idleRPM"`
	MaxRPM        float64         `json:"maxRPM"`
	SpoolUpTime   float64         `json:"spoolUpTime"`
	SpoolDownTime float64         `json:"spoolDownTime"`
	SpinAxis      physics.Vector3 `json:"spinAxis"`
}

// ThrottleConfig contains the time to traverse the full throttle range
type ThrottleConfig struct {
	SpoolUpTime   float64 `json:"spoolUpTime"`
	SpoolDownTime float64 `json:"spoolDownTime"`
}

// BrakeConfig contains wheel actuation values
type BrakeConfig struct {
	OnTorque float64 `json:"onTorque"`
	// IdleDriveTorque keeps the wheel colliders of the physics engine awake.
	IdleDriveTorque float64 `json:"idleDriveTorque"`
}

// FlapConfig contains the flap setting commanded when flaps are deployed
type FlapConfig struct {
	DeployedSetting float64 `json:"deployedSetting"`
}

// SurfaceConfig describes a control surface binding registered at setup
type SurfaceConfig struct {
	ID     string  `json:"id"`
	Role   string  `json:"role"`
	Gain   float64 `json:"gain"`
	Active bool    `json:"active"`
}

// WheelConfig describes a wheel actuator registered at setup
type WheelConfig struct {
	ID string `json:"id"`
}

// SimulationConfig contains host loop timing
type SimulationConfig struct {
	FrameRate     int     `json:"frameRate"`
	PhysicsRate   int     `json:"physicsRate"`
	MaxFrameDelta float64 `json:"maxFrameDelta"`
}

// RecorderConfig contains flight data recorder settings
type RecorderConfig struct {
	Enabled                bool    `json:"enabled"`
	Path                   string  `json:"path"`
	SampleInterval         float64 `json:"sampleInterval"`
	MaxConsecutiveFailures int     `json:"maxConsecutiveFailures"`
	BreakerTimeout         float64 `json:"breakerTimeout"`
}

// ServiceConfig contains settings for the headless runner
type ServiceConfig struct {
	HealthPort int `json:"healthPort"`
}

// Surface roles accepted in configuration files
var knownRoles = map[string]bool{
	"pitch": true,
	"roll":  true,
	"yaw":   true,
	"flap":  true,
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*AircraftConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config AircraftConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := CheckVersion(config.Version); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *AircraftConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default light single-engine aircraft configuration
func DefaultConfig() *AircraftConfig {
	return &AircraftConfig{
		Version: CurrentVersion,
		Name:    "trainer",
		Controls: ControlsConfig{
			PitchSensitivity: 0.2,
			RollSensitivity:  0.2,
			YawSensitivity:   0.2,
		},
		Engine: EngineConfig{
			StartUpTime:  3,
			ShutDownTime: 6,
		},
		Propeller: PropellerConfig{
			IdleRPM:       650,
			MaxRPM:        2700,
			SpoolUpTime:   4,
			SpoolDownTime: 8,
			SpinAxis:      physics.Forward,
		},
		Throttle: ThrottleConfig{
			SpoolUpTime:   3,
			SpoolDownTime: 2,
		},
		Brakes: BrakeConfig{
			OnTorque:        100,
			IdleDriveTorque: 0.01,
		},
		Flaps: FlapConfig{
			DeployedSetting: 0.3,
		},
		Surfaces: []SurfaceConfig{
			{ID: "aileron_left", Role: "roll", Gain: 1, Active: true},
			{ID: "aileron_right", Role: "roll", Gain: -1, Active: true},
			{ID: "elevator", Role: "pitch", Gain: 1, Active: true},
			{ID: "rudder", Role: "yaw", Gain: 1, Active: true},
			{ID: "flap_left", Role: "flap", Gain: 1, Active: true},
			{ID: "flap_right", Role: "flap", Gain: 1, Active: true},
		},
		Wheels: []WheelConfig{
			{ID: "nose"},
			{ID: "main_left"},
			{ID: "main_right"},
		},
		Simulation: SimulationConfig{
			FrameRate:     60,
			PhysicsRate:   50,
			MaxFrameDelta: 0.1,
		},
		Recorder: RecorderConfig{
			Enabled:                false,
			Path:                   "flight_data.db",
			SampleInterval:         1,
			MaxConsecutiveFailures: 5,
			BreakerTimeout:         30,
		},
		Service: ServiceConfig{
			HealthPort: 8080,
		},
	}
}

// Validate checks that every value is usable by the control core.
// Zero spool times are allowed and mean an instantaneous response.
func (c *AircraftConfig) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Engine.StartUpTime >= 0, "engine.startUpTime must be >= 0, got %v", c.Engine.StartUpTime)
	check(c.Engine.ShutDownTime >= 0, "engine.shutDownTime must be >= 0, got %v", c.Engine.ShutDownTime)
	check(c.Propeller.IdleRPM >= 0, "propeller.idleRPM must be >= 0, got %v", c.Propeller.IdleRPM)
	check(c.Propeller.MaxRPM >= c.Propeller.IdleRPM, "propeller.maxRPM (%v) must be >= idleRPM (%v)", c.Propeller.MaxRPM, c.Propeller.IdleRPM)
	check(c.Propeller.SpoolUpTime >= 0, "propeller.spoolUpTime must be >= 0, got %v", c.Propeller.SpoolUpTime)
	check(c.Propeller.SpoolDownTime >= 0, "propeller.spoolDownTime must be >= 0, got %v", c.Propeller.SpoolDownTime)
	check(c.Throttle.SpoolUpTime >= 0, "throttle.spoolUpTime must be >= 0, got %v", c.Throttle.SpoolUpTime)
	check(c.Throttle.SpoolDownTime >= 0, "throttle.spoolDownTime must be >= 0, got %v", c.Throttle.SpoolDownTime)
	check(c.Brakes.OnTorque >= 0, "brakes.onTorque must be >= 0, got %v", c.Brakes.OnTorque)
	check(c.Brakes.IdleDriveTorque > 0, "brakes.idleDriveTorque must be > 0, got %v", c.Brakes.IdleDriveTorque)
	check(c.Flaps.DeployedSetting >= 0 && c.Flaps.DeployedSetting <= 1, "flaps.deployedSetting must be in [0,1], got %v", c.Flaps.DeployedSetting)
	check(c.Simulation.FrameRate > 0, "simulation.frameRate must be > 0, got %d", c.Simulation.FrameRate)
	check(c.Simulation.PhysicsRate > 0, "simulation.physicsRate must be > 0, got %d", c.Simulation.PhysicsRate)
	check(c.Simulation.MaxFrameDelta > 0, "simulation.maxFrameDelta must be > 0, got %v", c.Simulation.MaxFrameDelta)

	seen := make(map[string]bool, len(c.Surfaces))
	for i, s := range c.Surfaces {
		check(s.ID != "", "surfaces[%d].id is empty", i)
		check(!seen[s.ID], "surfaces[%d].id %q is duplicated", i, s.ID)
		check(knownRoles[strings.ToLower(s.Role)], "surfaces[%d].role %q is unknown", i, s.Role)
		seen[s.ID] = true
	}

	if c.Recorder.Enabled {
		check(c.Recorder.Path != "", "recorder.path is required when the recorder is enabled")
		check(c.Recorder.SampleInterval >= 0, "recorder.sampleInterval must be >= 0, got %v", c.Recorder.SampleInterval)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
}
