// pkg/sim/simulation.go
package sim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-flightcore/pkg/config"
	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/event"
	"github.com/opd-ai/go-flightcore/pkg/logging"
)

// maxStepsPerTick bounds the physics catch-up work done in one frame
const maxStepsPerTick = 16

// PhysicsSolver consumes the fixed-rate actuator commands
type PhysicsSolver interface {
	ApplyControls(out control.PhysicsOutput, dt float64)
}

// Instruments supplies airspeed and altitude for the HUD
type Instruments interface {
	AirspeedMS() float64
	AltitudeM() float64
}

// Renderer rotates the propeller visual
type Renderer interface {
	RenderPropeller(frame control.RenderFrame)
}

// HUDDisplay shows the cockpit readouts
type HUDDisplay interface {
	ShowHUD(hud control.HUDState)
}

// Recorder stores sampled control states
type Recorder interface {
	Record(ctx context.Context, simTime float64, state control.AircraftControlState) error
}

// Simulation drives an Aircraft from a host loop: one Frame per rendered
// frame and a fixed number of physics steps per simulated second. All
// collaborators are optional.
type Simulation struct {
	Config   *config.AircraftConfig
	Aircraft *control.Aircraft
	EventBus *event.Bus

	Physics     PhysicsSolver
	Instruments Instruments
	Renderer    Renderer
	HUD         HUDDisplay
	Recorder    Recorder

	FrameStep     float64 // seconds per rendered frame
	PhysicsStep   float64 // seconds per physics step
	MaxFrameDelta float64

	CurrentFrame uint64
	CurrentStep  uint64
	SimTime      float64 // seconds
	LastUpdate   time.Time

	accumulator  float64
	sinceRecord  float64
	recordErrors uint64

	mu       sync.Mutex
	running  atomic.Bool
	lastTick atomic.Int64
	logger   *logging.Logger
}

// NewSimulation creates a simulation for cfg. A nil bus gets a fresh one.
func NewSimulation(cfg *config.AircraftConfig, bus *event.Bus) (*Simulation, error) {
	if bus == nil {
		bus = event.NewEventBus()
	}

	aircraft, err := control.NewAircraft(cfg, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to create aircraft: %w", err)
	}

	return &Simulation{
		Config:        cfg,
		Aircraft:      aircraft,
		EventBus:      bus,
		FrameStep:     1.0 / float64(cfg.Simulation.FrameRate),
		PhysicsStep:   1.0 / float64(cfg.Simulation.PhysicsRate),
		MaxFrameDelta: cfg.Simulation.MaxFrameDelta,
		LastUpdate:    time.Now(),
		logger:        logging.NewLogger(),
	}, nil
}

// SetLogger replaces the logger used by the simulation and its aircraft
func (s *Simulation) SetLogger(logger *logging.Logger) {
	if logger == nil {
		return
	}
	s.logger = logger
	s.Aircraft.SetLogger(logger)
}

// Start marks the simulation as running
func (s *Simulation) Start() {
	s.mu.Lock()
	s.LastUpdate = time.Now()
	s.mu.Unlock()

	s.running.Store(true)
	s.lastTick.Store(time.Now().UnixNano())
	s.logger.Info(context.Background(), "simulation started",
		"aircraft", s.Config.Name,
		"frame_rate", s.Config.Simulation.FrameRate,
		"physics_rate", s.Config.Simulation.PhysicsRate,
	)
	s.EventBus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: s})
}

// Stop marks the simulation as halted
func (s *Simulation) Stop() {
	if !s.running.Swap(false) {
		return
	}

	s.mu.Lock()
	frames, steps, simTime := s.CurrentFrame, s.CurrentStep, s.SimTime
	s.mu.Unlock()

	s.logger.Info(context.Background(), "simulation stopped",
		"frames", frames,
		"physics_steps", steps,
		"sim_time", simTime,
	)
	s.EventBus.Publish(&event.BaseEvent{EventType: event.SimulationStopped, Source: s})
}

// Running reports whether Start has been called without a matching Stop
func (s *Simulation) Running() bool {
	return s.running.Load()
}

// LastTick returns the wall-clock time of the most recent Tick, or the
// zero time before the first one.
func (s *Simulation) LastTick() time.Time {
	ns := s.lastTick.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// State returns a copy of the aircraft control state
func (s *Simulation) State() control.AircraftControlState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Aircraft.State()
}

// RecordErrors returns how many recorder writes have failed
func (s *Simulation) RecordErrors() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordErrors
}

// Update advances the simulation by the wall-clock time since the last update
func (s *Simulation) Update(ctx context.Context, src control.CommandSource) control.FrameOutput {
	return s.Tick(ctx, s.calculateDeltaTime(), src)
}

// Tick advances the simulation by one frame of dt seconds: it samples src,
// runs the aircraft frame, drives the renderer and HUD, then runs as many
// fixed physics steps as the accumulated time allows.
func (s *Simulation) Tick(ctx context.Context, dt float64, src control.CommandSource) control.FrameOutput {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt = s.clampDelta(dt)

	if clocked, ok := src.(control.Clocked); ok {
		clocked.Advance(dt)
	}

	out := s.Aircraft.Frame(dt, control.SampleCommands(src))
	if s.Instruments != nil {
		out.HUD.AirspeedMS = s.Instruments.AirspeedMS()
		out.HUD.AltitudeM = s.Instruments.AltitudeM()
	}
	if s.Renderer != nil {
		s.Renderer.RenderPropeller(out.Render)
	}
	if s.HUD != nil {
		s.HUD.ShowHUD(out.HUD)
	}

	s.runPhysics(dt)
	s.SimTime += dt
	s.CurrentFrame++
	s.record(ctx, dt)

	s.lastTick.Store(time.Now().UnixNano())
	return out
}

// Run ticks the simulation at the configured frame rate until ctx is done
func (s *Simulation) Run(ctx context.Context, src control.CommandSource) error {
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(time.Duration(s.FrameStep * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Update(ctx, src)
		}
	}
}

// RunFor ticks the simulation with a fixed frame step until duration
// simulated seconds have passed, without waiting on the wall clock.
func (s *Simulation) RunFor(ctx context.Context, duration float64, src control.CommandSource) error {
	s.Start()
	defer s.Stop()

	end := s.SimTime + duration
	for s.SimTime+s.FrameStep/2 < end {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick(ctx, s.FrameStep, src)
	}
	return nil
}

// calculateDeltaTime calculates the time since the last update
func (s *Simulation) calculateDeltaTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	deltaTime := now.Sub(s.LastUpdate).Seconds()
	s.LastUpdate = now
	return deltaTime
}

// clampDelta caps dt to prevent a long stall from skipping whole ramps
func (s *Simulation) clampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if s.MaxFrameDelta > 0 && dt > s.MaxFrameDelta {
		return s.MaxFrameDelta
	}
	return dt
}

// runPhysics drains the accumulator in fixed steps
func (s *Simulation) runPhysics(dt float64) {
	if s.PhysicsStep <= 0 {
		return
	}

	s.accumulator += dt
	steps := 0
	for s.accumulator >= s.PhysicsStep && steps < maxStepsPerTick {
		out := s.Aircraft.PhysicsStep()
		if s.Physics != nil {
			s.Physics.ApplyControls(out, s.PhysicsStep)
		}
		s.accumulator -= s.PhysicsStep
		s.CurrentStep++
		steps++
	}
	if s.accumulator >= s.PhysicsStep {
		s.accumulator = 0
	}
}

// record samples the control state at the configured interval
func (s *Simulation) record(ctx context.Context, dt float64) {
	if s.Recorder == nil {
		return
	}

	s.sinceRecord += dt
	if s.sinceRecord < s.Config.Recorder.SampleInterval {
		return
	}
	s.sinceRecord = 0

	if err := s.Recorder.Record(ctx, s.SimTime, s.Aircraft.State()); err != nil {
		s.recordErrors++
		s.logger.Warn(ctx, "failed to record control state",
			"error", err.Error(),
			"sim_time", s.SimTime,
			"failures", s.recordErrors,
		)
	}
}
