package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NP-Dat/tcr-sim/internal/config"
	"github.com/NP-Dat/tcr-sim/internal/game"
	"github.com/NP-Dat/tcr-sim/internal/sim"
	"github.com/NP-Dat/tcr-sim/internal/stream"
	"github.com/NP-Dat/tcr-sim/pkg/logger"
)

func main() {
	// Command line flags
	basePath := flag.String("basePath", getDefaultBasePath(), "Base path for config files")
	ticks := flag.Int("ticks", 0, "Number of ticks to run (0 uses the scenario's value)")
	dt := flag.Float64("dt", 0, "Seconds simulated per tick (0 uses the scenario's value)")
	realtime := flag.Bool("realtime", false, "Tick on a wall clock instead of replaying as fast as possible")
	frames := flag.Bool("frames", false, "Write JSON frames to stdout (logs go to stderr)")
	logLevel := flag.String("logLevel", "info", "Log level (debug, info, warn, error)")
	logDir := flag.String("logDir", "", "Also write logs to a dated file in this directory")

	flag.Parse()

	initLogging(*logLevel, *logDir, *frames)

	cfg, err := config.NewConfigLoader(*basePath).LoadGameConfig()
	if err != nil {
		logger.CLI.Fatal("Failed to load config: %v", err)
	}

	state, err := game.NewFromSetup(game.SetupFromConfig(cfg))
	if err != nil {
		logger.CLI.Fatal("Failed to build game state: %v", err)
	}

	delta := cfg.Scenario.TickDelta
	if *dt > 0 {
		delta = float32(*dt)
	}
	limit := cfg.Scenario.Ticks
	if *ticks > 0 {
		limit = *ticks
	}

	var out *stream.Writer
	if *frames {
		out = stream.NewWriter(os.Stdout)
	}

	driver, err := sim.NewDriver(state, delta, cfg.Scenario.Script, out)
	if err != nil {
		logger.CLI.Fatal("Failed to create driver: %v", err)
	}

	logger.CLI.Info("Running scenario %q (session %s): %d ticks of %vs", cfg.Scenario.Name, state.SessionID(), limit, delta)
	driver.PublishSnapshot()

	if *realtime {
		// Wait for interrupt signal to stop the session early
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		err = sim.NewSession(driver, 0, limit).Run(ctx)
		stop()
		if errors.Is(err, context.Canceled) {
			logger.CLI.Info("Interrupted, shutting down")
			err = nil
		}
	} else {
		_, err = driver.Replay(limit)
	}
	if err != nil {
		logger.CLI.Fatal("Simulation failed: %v", err)
	}

	driver.PublishSnapshot()
	printSummary(driver.Summary())
}

// initLogging configures the component loggers from the command line flags
func initLogging(levelName, dir string, frames bool) {
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, using INFO\n", err)
		level = logger.INFO
	}
	logger.SetGlobalLogLevel(level)

	// stdout carries the frame stream
	if frames {
		logger.SetGlobalOutput(os.Stderr)
	}

	if dir != "" {
		if err := logger.InitializeFileLogging(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize file logging: %v\n", err)
		}
	}
}

func printSummary(s sim.Summary) {
	logger.CLI.Info("Finished after %d ticks: %d deployed, %d rejected, %d attacks, %d units removed, %d alive",
		s.Ticks, s.Deployed, s.Rejected, s.Attacks, s.UnitsRemoved, s.UnitsAlive)
	for _, p := range s.Players {
		logger.CLI.Info("Player %d: %d elixir left", p.ID, p.Elixir)
	}
	logger.CLI.Info("State digest: %s", s.Digest)
}

// getDefaultBasePath returns the default base path for config files
func getDefaultBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get current working directory: %v\n", err)
		return "."
	}

	if path, ok := config.FindBasePath(cwd); ok {
		return path
	}
	// Default to current directory if not found
	return cwd
}
