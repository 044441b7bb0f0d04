package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/neurolife/config"
	"github.com/pthm-cable/neurolife/game"
	"github.com/pthm-cable/neurolife/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and champion")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = config, then unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// CLI overrides
	if *seed != 0 {
		cfg.Run.Seed = *seed
	}
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = time.Now().UnixNano()
	}
	if *maxTicks > 0 {
		cfg.Run.MaxTicks = *maxTicks
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := game.NewEngine(game.Options{
		Config:    cfg.Simulation,
		Seed:      cfg.Run.Seed,
		Collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		Perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		Bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
	})

	slog.Info("starting simulation",
		"seed", cfg.Run.Seed,
		"initial_population", cfg.Simulation.InitialPopulation,
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", cfg.Run.MaxTicks,
		"output_dir", om.Dir(),
	)

	run(ctx, engine, om, cfg.Run.MaxTicks, *logStats)

	stats := engine.Stats()
	slog.Info("simulation finished",
		"tick", engine.TickCount(),
		"population", stats.Population,
		"max_fitness", stats.MaxFitness,
		"avg_energy", stats.AvgEnergy,
	)

	if stats.BestAgent != nil {
		if err := om.WriteChampion(game.Summarize(stats.BestAgent)); err != nil {
			slog.Error("failed to write champion", "error", err)
		}
	}
	if err := om.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}

// run ticks the engine until maxTicks is reached (0 = unlimited) or ctx is cancelled.
func run(ctx context.Context, engine *game.Engine, om *telemetry.OutputManager, maxTicks int, logStats bool) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", engine.TickCount())
			return
		default:
		}

		engine.Tick()
		engine.FlushTelemetry(om, logStats)

		if maxTicks > 0 && engine.TickCount() >= int64(maxTicks) {
			slog.Info("max ticks reached", "tick", engine.TickCount())
			return
		}
	}
}
