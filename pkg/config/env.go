// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables recognised by ApplyEnvironmentOverrides
const (
	EnvFrameRate         = "FLIGHTCORE_FRAME_RATE"
	EnvPhysicsRate       = "FLIGHTCORE_PHYSICS_RATE"
	EnvMaxFrameDelta     = "FLIGHTCORE_MAX_FRAME_DELTA"
	EnvThrottleSpoolUp   = "FLIGHTCORE_THROTTLE_SPOOL_UP"
	EnvThrottleSpoolDown = "FLIGHTCORE_THROTTLE_SPOOL_DOWN"
	EnvPropellerIdleRPM  = "FLIGHTCORE_PROPELLER_IDLE_RPM"
	EnvPropellerMaxRPM   = "FLIGHTCORE_PROPELLER_MAX_RPM"
	EnvBrakeTorque       = "FLIGHTCORE_BRAKE_TORQUE"
	EnvRecorderEnabled   = "FLIGHTCORE_RECORDER_ENABLED"
	EnvRecorderPath      = "FLIGHTCORE_RECORDER_PATH"
	EnvRecorderInterval  = "FLIGHTCORE_RECORDER_INTERVAL"
	EnvHealthPort        = "FLIGHTCORE_HEALTH_PORT"
)

// ApplyEnvironmentOverrides replaces configuration values with any
// FLIGHTCORE_* environment variables that are set, then validates the result.
func ApplyEnvironmentOverrides(config *AircraftConfig) error {
	var err error

	if config.Simulation.FrameRate, err = getEnvInt(EnvFrameRate, config.Simulation.FrameRate); err != nil {
		return err
	}
	if config.Simulation.PhysicsRate, err = getEnvInt(EnvPhysicsRate, config.Simulation.PhysicsRate); err != nil {
		return err
	}
	if config.Simulation.MaxFrameDelta, err = getEnvFloat(EnvMaxFrameDelta, config.Simulation.MaxFrameDelta); err != nil {
		return err
	}
	if config.Throttle.SpoolUpTime, err = getEnvFloat(EnvThrottleSpoolUp, config.Throttle.SpoolUpTime); err != nil {
		return err
	}
	if config.Throttle.SpoolDownTime, err = getEnvFloat(EnvThrottleSpoolDown, config.Throttle.SpoolDownTime); err != nil {
		return err
	}
	if config.Propeller.IdleRPM, err = getEnvFloat(EnvPropellerIdleRPM, config.Propeller.IdleRPM); err != nil {
		return err
	}
	if config.Propeller.MaxRPM, err = getEnvFloat(EnvPropellerMaxRPM, config.Propeller.MaxRPM); err != nil {
		return err
	}
	if config.Brakes.OnTorque, err = getEnvFloat(EnvBrakeTorque, config.Brakes.OnTorque); err != nil {
		return err
	}
	if config.Recorder.Enabled, err = getEnvBool(EnvRecorderEnabled, config.Recorder.Enabled); err != nil {
		return err
	}
	config.Recorder.Path = getEnvString(EnvRecorderPath, config.Recorder.Path)
	if config.Recorder.SampleInterval, err = getEnvFloat(EnvRecorderInterval, config.Recorder.SampleInterval); err != nil {
		return err
	}
	if config.Service.HealthPort, err = getEnvInt(EnvHealthPort, config.Service.HealthPort); err != nil {
		return err
	}

	return config.Validate()
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
