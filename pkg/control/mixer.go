// pkg/control/mixer.go
package control

import (
	"fmt"
	"math"
	"strings"
)

// Role is the logical axis a control surface responds to
type Role int

const (
	RoleNone Role = iota
	RolePitch
	RoleRoll
	RoleYaw
	RoleFlap
)

func (r Role) String() string {
	switch r {
	case RolePitch:
		return "pitch"
	case RoleRoll:
		return "roll"
	case RoleYaw:
		return "yaw"
	case RoleFlap:
		return "flap"
	default:
		return "none"
	}
}

// ParseRole converts a configuration role name to a Role
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pitch":
		return RolePitch, nil
	case "roll":
		return RoleRoll, nil
	case "yaw":
		return RoleYaw, nil
	case "flap":
		return RoleFlap, nil
	}
	return RoleNone, fmt.Errorf("unknown control surface role %q", name)
}

// ControlSurface is a surface binding registered by the physics
// collaborator. The mixer reads it every physics step.
type ControlSurface struct {
	ID     string
	Active bool
	Role   Role
	Gain   float64
}

// SurfaceCommand is the commanded deflection for one surface
type SurfaceCommand struct {
	ID         string
	Role       Role
	Deflection float64
}

// MixerInput holds the four logical axes
type MixerInput struct {
	Pitch float64
	Roll  float64
	Yaw   float64
	Flap  float64
}

// Mixer maps logical axes onto surfaces by role and gain
type Mixer struct {
	PitchSensitivity float64
	RollSensitivity  float64
	YawSensitivity   float64
}

// Deflection returns the command for a surface with role and gain. Flaps
// use the flap command directly with no sensitivity scaling. ok is false
// for roles the mixer does not drive.
func (m Mixer) Deflection(role Role, gain float64, in MixerInput) (deflection float64, ok bool) {
	switch role {
	case RolePitch:
		return in.Pitch * m.PitchSensitivity * gain, true
	case RoleRoll:
		return in.Roll * m.RollSensitivity * gain, true
	case RoleYaw:
		return in.Yaw * m.YawSensitivity * gain, true
	case RoleFlap:
		return in.Flap * gain, true
	default:
		return 0, false
	}
}

// Mix returns a command for every usable surface, in registration order.
// Nil, inactive, role-less and non-finite-gain bindings are skipped so one
// bad binding never blocks the rest.
func (m Mixer) Mix(surfaces []*ControlSurface, in MixerInput) []SurfaceCommand {
	commands := make([]SurfaceCommand, 0, len(surfaces))
	for _, s := range surfaces {
		if s == nil || !s.Active {
			continue
		}
		if math.IsNaN(s.Gain) || math.IsInf(s.Gain, 0) {
			continue
		}
		deflection, ok := m.Deflection(s.Role, s.Gain, in)
		if !ok {
			continue
		}
		commands = append(commands, SurfaceCommand{
			ID:         s.ID,
			Role:       s.Role,
			Deflection: deflection,
		})
	}
	return commands
}
