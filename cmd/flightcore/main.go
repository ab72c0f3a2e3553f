// cmd/flightcore/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-flightcore/pkg/config"
	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/health"
	"github.com/opd-ai/go-flightcore/pkg/logging"
	"github.com/opd-ai/go-flightcore/pkg/render"
	"github.com/opd-ai/go-flightcore/pkg/sim"
	"github.com/opd-ai/go-flightcore/pkg/telemetry"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	configPath := flag.String("config", "aircraft.json", "Path to aircraft configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	scriptPath := flag.String("script", "", "Path to a JSON command script")
	duration := flag.Duration("duration", 0, "Simulated time to run; 0 runs in real time until interrupted")
	recordPath := flag.String("record", "", "Record control states to this sqlite database")
	exportPath := flag.String("export", "", "Export recorded samples to this CSV file when the run ends")
	snapshotPath := flag.String("snapshot", "", "Write the final control state to this snapshot file")
	restorePath := flag.String("restore", "", "Restore control state from this snapshot file before running")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}
	if *recordPath != "" {
		cfg.Recorder.Enabled = true
		cfg.Recorder.Path = *recordPath
	}

	simulation, err := sim.NewSimulation(cfg, nil)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}
	simulation.SetLogger(logger)

	display := render.NewNullRenderer(logger)
	simulation.Renderer = display
	simulation.HUD = display

	if *restorePath != "" {
		snap, err := telemetry.ReadSnapshotFile(*restorePath)
		if err != nil {
			logger.Error(ctx, "Failed to restore snapshot", err,
				"snapshot_path", *restorePath,
			)
			os.Exit(1)
		}
		simulation.Aircraft.Restore(snap.State)
		simulation.SimTime = snap.SimTime
		logger.Info(ctx, "Restored control state",
			"snapshot_path", *restorePath,
			"aircraft", snap.Aircraft,
			"sim_time", snap.SimTime,
		)
	}

	var source control.CommandSource = control.NewQueueSource()
	if *scriptPath != "" {
		script, err := control.LoadScript(*scriptPath)
		if err != nil {
			logger.Error(ctx, "Failed to load command script", err,
				"script_path", *scriptPath,
			)
			os.Exit(1)
		}
		source = script
	}

	var recorder *telemetry.SQLiteRecorder
	if cfg.Recorder.Enabled {
		recorder, err = telemetry.OpenSQLiteRecorder(cfg.Recorder.Path)
		if err != nil {
			logger.Error(ctx, "Failed to open flight data recorder", err,
				"recorder_path", cfg.Recorder.Path,
			)
			os.Exit(1)
		}
		defer recorder.Close()
		simulation.Recorder = telemetry.NewBreakerRecorder(recorder, cfg.Recorder, logger)
	}

	// Setup health checks
	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewSimulationHealthCheck(simulation.Running))
	if *duration == 0 {
		healthChecker.AddCheck(health.NewTickFreshnessHealthCheck(5*time.Second, simulation.LastTick))
	}
	if recorder != nil {
		healthChecker.AddCheck(health.NewRecorderHealthCheck(recorder.Ping))
	}

	healthChecker.AddCheck(health.NewMemoryHealthCheck(500, nil))

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(runCtx, logger, simulation, source, healthChecker, cfg.Service.HealthPort, *duration); err != nil {
		logger.Error(ctx, "Simulation run failed", err)
	}

	if *snapshotPath != "" {
		snap := telemetry.NewSnapshot(cfg.Name, simulation.SimTime, simulation.State())
		if err := telemetry.WriteSnapshotFile(*snapshotPath, snap); err != nil {
			logger.Error(ctx, "Failed to write snapshot", err,
				"snapshot_path", *snapshotPath,
			)
		} else {
			logger.Info(ctx, "Wrote snapshot", "snapshot_path", *snapshotPath)
		}
	}

	if *exportPath != "" && recorder != nil {
		n, err := recorder.ExportCSV(ctx, *exportPath)
		if err != nil {
			logger.Error(ctx, "Failed to export recorded samples", err,
				"export_path", *exportPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Exported recorded samples",
			"export_path", *exportPath,
			"samples", n,
		)
	}
}

// loadConfig reads the configuration file, falling back to defaults when it
// does not exist, and applies environment overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.AircraftConfig, error) {
	var cfg *config.AircraftConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// run drives the simulation alongside the health server. A positive
// duration runs that much simulated time as fast as possible; otherwise the
// loop follows the wall clock until ctx is cancelled.
func run(ctx context.Context, logger *logging.Logger, simulation *sim.Simulation, source control.CommandSource,
	checker *health.HealthChecker, healthPort int, duration time.Duration,
) error {
	g, gctx := errgroup.WithContext(ctx)
	simDone := make(chan struct{})

	g.Go(func() error {
		defer close(simDone)
		if duration > 0 {
			return simulation.RunFor(gctx, duration.Seconds(), source)
		}
		return simulation.Run(gctx, source)
	})

	if healthPort > 0 {
		healthServer := &http.Server{
			Addr:         ":" + strconv.Itoa(healthPort),
			Handler:      checker.Routes(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info(ctx, "Starting health check server", "port", healthPort)
			if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-simDone:
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return healthServer.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
