// pkg/config/config_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, 0.2, cfg.Controls.PitchSensitivity)
	assert.Equal(t, 0.2, cfg.Controls.RollSensitivity)
	assert.Equal(t, 0.2, cfg.Controls.YawSensitivity)
	assert.Equal(t, 3.0, cfg.Engine.StartUpTime)
	assert.Equal(t, 6.0, cfg.Engine.ShutDownTime)
	assert.Equal(t, 650.0, cfg.Propeller.IdleRPM)
	assert.Equal(t, 2700.0, cfg.Propeller.MaxRPM)
	assert.Equal(t, 4.0, cfg.Propeller.SpoolUpTime)
	assert.Equal(t, 8.0, cfg.Propeller.SpoolDownTime)
	assert.Equal(t, 3.0, cfg.Throttle.SpoolUpTime)
	assert.Equal(t, 2.0, cfg.Throttle.SpoolDownTime)
	assert.Equal(t, 100.0, cfg.Brakes.OnTorque)
	assert.Equal(t, 0.01, cfg.Brakes.IdleDriveTorque)
	assert.Equal(t, 0.3, cfg.Flaps.DeployedSetting)
	assert.Len(t, cfg.Surfaces, 6)
	assert.Len(t, cfg.Wheels, 3)
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aircraft.json")

	original := DefaultConfig()
	original.Name = "glider-tug"
	original.Throttle.SpoolUpTime = 1.5

	require.NoError(t, SaveConfig(original, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("future schema version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "future.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.1.0"}`), 0o644))

		_, err := LoadConfig(path)
		assert.True(t, errors.Is(err, ErrIncompatibleVersion))
	})
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"", false},
		{"1.0.0", false},
		{"1.4.2", false},
		{"v1.2.0", false},
		{"0.9.0", true},
		{"2.0.0", true},
		{"not-a-version", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckVersion(tt.version)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIncompatibleVersion)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AircraftConfig)
		want   string
	}{
		{"negative throttle spool", func(c *AircraftConfig) { c.Throttle.SpoolUpTime = -1 }, "throttle.spoolUpTime"},
		{"max below idle", func(c *AircraftConfig) { c.Propeller.MaxRPM = 100 }, "propeller.maxRPM"},
		{"zero idle drive torque", func(c *AircraftConfig) { c.Brakes.IdleDriveTorque = 0 }, "brakes.idleDriveTorque"},
		{"flap setting above one", func(c *AircraftConfig) { c.Flaps.DeployedSetting = 1.2 }, "flaps.deployedSetting"},
		{"zero physics rate", func(c *AircraftConfig) { c.Simulation.PhysicsRate = 0 }, "simulation.physicsRate"},
		{"unknown role", func(c *AircraftConfig) { c.Surfaces[0].Role = "spoiler" }, "role \"spoiler\""},
		{"duplicate surface", func(c *AircraftConfig) { c.Surfaces[1].ID = c.Surfaces[0].ID }, "duplicated"},
		{"recorder without path", func(c *AircraftConfig) {
			c.Recorder.Enabled = true
			c.Recorder.Path = ""
		}, "recorder.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ZeroSpoolTimesAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.StartUpTime = 0
	cfg.Engine.ShutDownTime = 0
	cfg.Propeller.SpoolUpTime = 0
	cfg.Propeller.SpoolDownTime = 0
	cfg.Throttle.SpoolUpTime = 0
	cfg.Throttle.SpoolDownTime = 0

	assert.NoError(t, cfg.Validate())
}

func TestValidate_RoleCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surfaces[0].Role = "Roll"
	assert.NoError(t, cfg.Validate())
}
