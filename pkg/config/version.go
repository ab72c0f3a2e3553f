// pkg/config/version.go
package config

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CurrentVersion is the configuration schema version written by SaveConfig
const CurrentVersion = "1.0.0"

// supportedVersions is the range of schema versions LoadConfig accepts
const supportedVersions = ">= 1.0.0, < 2.0.0"

// ErrIncompatibleVersion is returned when a config file uses an unsupported schema
var ErrIncompatibleVersion = errors.New("incompatible configuration version")

// CheckVersion verifies that a configuration schema version can be loaded.
// An empty version is treated as CurrentVersion.
func CheckVersion(version string) error {
	if version == "" {
		return nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrIncompatibleVersion, version, err)
	}

	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("failed to parse version constraint: %w", err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, v, supportedVersions)
	}
	return nil
}
