// pkg/control/command.go
package control

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// Command is a discrete, edge-triggered pilot command
type Command int

const (
	ToggleEngine Command = iota
	ToggleThrottle
	ToggleFlap
	ToggleBrake
)

// Commands lists every discrete command in sampling order
var Commands = []Command{ToggleEngine, ToggleThrottle, ToggleFlap, ToggleBrake}

var commandNames = map[Command]string{
	ToggleEngine:   "toggle_engine",
	ToggleThrottle: "toggle_throttle",
	ToggleFlap:     "toggle_flap",
	ToggleBrake:    "toggle_brake",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand converts a command name such as "toggle_engine" to a Command
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for cmd, n := range commandNames {
		if n == name {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Axes holds the continuous stick inputs. Values are conceptually in
// [-1,1]; clamping is the input source's job.
type Axes struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// CommandSource supplies pilot input to the sampler.
//
// Triggered reports whether the command's edge occurred since the previous
// sample. SampleCommands calls it exactly once per command per frame, so
// implementations may clear the edge when it is read.
type CommandSource interface {
	Triggered(cmd Command) bool
	Axes() Axes
}

// Clocked is implemented by sources that follow simulation time rather
// than a host input system. The host loop advances them before sampling.
type Clocked interface {
	Advance(dt float64)
}

// CommandSnapshot is the immutable input for one frame
type CommandSnapshot struct {
	ToggleEngine   bool
	ToggleThrottle bool
	ToggleFlap     bool
	ToggleBrake    bool
	Axes           Axes
}

// Triggered reports whether cmd fired in this snapshot
func (s CommandSnapshot) Triggered(cmd Command) bool {
	switch cmd {
	case ToggleEngine:
		return s.ToggleEngine
	case ToggleThrottle:
		return s.ToggleThrottle
	case ToggleFlap:
		return s.ToggleFlap
	case ToggleBrake:
		return s.ToggleBrake
	}
	return false
}

// SampleCommands reads src once and returns the frame's snapshot. A nil
// source yields an empty snapshot. Non-finite axis values read as zero.
func SampleCommands(src CommandSource) CommandSnapshot {
	if src == nil {
		return CommandSnapshot{}
	}
	axes := src.Axes()
	return CommandSnapshot{
		ToggleEngine:   src.Triggered(ToggleEngine),
		ToggleThrottle: src.Triggered(ToggleThrottle),
		ToggleFlap:     src.Triggered(ToggleFlap),
		ToggleBrake:    src.Triggered(ToggleBrake),
		Axes: Axes{
			Pitch: physics.Finite(axes.Pitch),
			Roll:  physics.Finite(axes.Roll),
			Yaw:   physics.Finite(axes.Yaw),
		},
	}
}
