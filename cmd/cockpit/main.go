// cmd/cockpit/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EngoEngine/engo"
	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-flightcore/pkg/config"
	"github.com/opd-ai/go-flightcore/pkg/event"
	"github.com/opd-ai/go-flightcore/pkg/logging"
	"github.com/opd-ai/go-flightcore/pkg/render"
	engorender "github.com/opd-ai/go-flightcore/pkg/render/engo"
	"github.com/opd-ai/go-flightcore/pkg/sim"
)

func main() {
	configPath := flag.String("config", "aircraft.json", "Path to aircraft configuration file")
	renderer := flag.String("renderer", "terminal", "Renderer type: 'terminal' or 'engo'")
	logPath := flag.String("log", "cockpit.log", "Log file path")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1024, "Window width (Engo only)")
	height := flag.Int("height", 768, "Window height (Engo only)")
	flag.Parse()

	// stdout belongs to the cockpit display
	logger, closer := logging.NewFileLogger(*logPath)
	defer closer.Close()
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	// Load configuration
	var cfg *config.AircraftConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fatal(ctx, logger, "Failed to load configuration", err)
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		fatal(ctx, logger, "Failed to apply environment configuration", err)
	}

	eventBus := event.NewEventBus()
	subscribeToEvents(ctx, logger, eventBus)

	simulation, err := sim.NewSimulation(cfg, eventBus)
	if err != nil {
		fatal(ctx, logger, "Failed to create simulation", err)
	}
	simulation.SetLogger(logger)

	// Choose renderer based on command line flag
	switch *renderer {
	case "engo":
		startEngoRenderer(simulation, logger, cfg.Name, *width, *height, *fullscreen)
	case "terminal":
		fallthrough
	default:
		if err := startTerminalRenderer(ctx, simulation, logger); err != nil {
			fatal(ctx, logger, "Terminal cockpit failed", err)
		}
	}
}

// subscribeToEvents logs every discrete control transition
func subscribeToEvents(ctx context.Context, logger *logging.Logger, bus *event.Bus) {
	bus.Subscribe(event.EngineStarted, func(e event.Event) {
		logger.Info(ctx, "Engine started")
	})
	bus.Subscribe(event.EngineStopped, func(e event.Event) {
		logger.Info(ctx, "Engine stopped")
	})
	for _, t := range []event.Type{event.ThrottleTargetChanged, event.FlapsChanged, event.BrakesChanged} {
		bus.Subscribe(t, func(e event.Event) {
			if actuator, ok := e.(*event.ActuatorEvent); ok {
				logger.Info(ctx, "Actuator changed",
					"event", actuator.GetType(),
					"previous", actuator.Previous,
					"current", actuator.Current,
				)
			}
		})
	}
}

// startEngoRenderer runs the cockpit in an Engo window
func startEngoRenderer(simulation *sim.Simulation, logger *logging.Logger, name string, width, height int, fullscreen bool) {
	scene := engorender.NewCockpitScene(simulation, logger)

	opts := engo.RunOptions{
		Title:      "Flightcore - " + name,
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}

	engo.Run(opts, scene)
}

// startTerminalRenderer runs the cockpit in the terminal until the pilot
// quits or the process is signalled.
func startTerminalRenderer(ctx context.Context, simulation *sim.Simulation, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	cockpit := render.NewTerminalCockpit(screen)
	simulation.Renderer = cockpit
	simulation.HUD = cockpit

	runCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-cockpit.Done()
		cancel()
	}()
	go cockpit.PollEvents(runCtx)

	logger.Info(ctx, "Terminal cockpit started")
	return simulation.Run(runCtx, cockpit.Source())
}

func fatal(ctx context.Context, logger *logging.Logger, msg string, err error) {
	logger.Error(ctx, msg, err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
