// pkg/render/engo/system.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/sim"
)

// FlightSystem ticks the simulation once per engo frame, using the frame
// delta engo passes to Update.
type FlightSystem struct {
	simulation *sim.Simulation
	source     control.CommandSource
	ctx        context.Context
	onQuit     func()

	last control.FrameOutput
}

type quitter interface {
	QuitRequested() bool
}

// NewFlightSystem creates a system that drives simulation from source
func NewFlightSystem(simulation *sim.Simulation, source control.CommandSource) *FlightSystem {
	return &FlightSystem{
		simulation: simulation,
		source:     source,
		ctx:        context.Background(),
	}
}

// OnQuit sets the callback invoked when the source requests quit
func (fs *FlightSystem) OnQuit(fn func()) {
	fs.onQuit = fn
}

// Remove satisfies the ecs.System interface
func (fs *FlightSystem) Remove(basic ecs.BasicEntity) {}

// Update advances the simulation by dt seconds
func (fs *FlightSystem) Update(dt float32) {
	if q, ok := fs.source.(quitter); ok && q.QuitRequested() && fs.onQuit != nil {
		fs.onQuit()
		return
	}
	fs.last = fs.simulation.Tick(fs.ctx, float64(dt), fs.source)
}

// LastFrame returns the output of the most recent Update
func (fs *FlightSystem) LastFrame() control.FrameOutput {
	return fs.last
}
