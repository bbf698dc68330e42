package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/lattice/config"
	"github.com/pthm-cable/lattice/engine"
	"github.com/pthm-cable/lattice/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed for pattern seeding (0 = time-based)")
	maxGens := flag.Int("max-gens", 1000, "Stop after N generations (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files (empty = no snapshots)")
	restorePath := flag.String("restore", "", "Snapshot file to restore instead of noise seeding")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in generations (0 = use config)")
	validateEvery := flag.Int("validate-every", -1, "Recheck neighbour counters every N generations (-1 = use config, 0 = never)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config values where not overridden by CLI
	windowGens := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		windowGens = *statsWindow
	}
	validateGens := cfg.Engine.ValidateEvery
	if *validateEvery >= 0 {
		validateGens = *validateEvery
	}

	r, err := cfg.BuildRule()
	if err != nil {
		slog.Error("failed to build rule", "error", err)
		os.Exit(1)
	}
	gen, err := cfg.BuildGenerator(rngSeed)
	if err != nil {
		slog.Error("failed to build noise generator", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to snapshot config", "error", err)
		os.Exit(1)
	}

	e := engine.New()
	pool := engine.NewPool(cfg.Derived.Workers)
	defer pool.Close()

	size := e.Resize(r.BoundingSize)

	var seeded int
	if *restorePath != "" {
		snap, err := telemetry.LoadSnapshot(*restorePath)
		if err != nil {
			slog.Error("failed to restore snapshot", "error", err)
			os.Exit(1)
		}
		seeded = e.ImportCells(r, snap.Cells)
		slog.Info("restored snapshot",
			"path", *restorePath,
			"snapshot_generation", snap.Generation,
			"cells", seeded,
		)
	} else {
		seeded = e.SpawnNoise(r, gen)
	}

	slog.Info("starting simulation",
		"preset", cfg.Rule.Preset,
		"states", r.States,
		"size", size,
		"seed", rngSeed,
		"seeded_cells", seeded,
		"workers", cfg.Derived.Workers,
		"stats_window", windowGens,
		"max_gens", *maxGens,
	)

	collector := telemetry.NewCollector(windowGens)
	perf := telemetry.NewPerfCollector(windowGens)
	lastGeneration := 0

	for generation := 1; *maxGens == 0 || generation <= *maxGens; generation++ {
		lastGeneration = generation
		perf.StartStep()
		stats := e.Step(r, pool)
		perf.RecordPhase(telemetry.PhaseValues, stats.ValuesDuration)
		perf.RecordPhase(telemetry.PhaseNeighbours, stats.NeighboursDuration)

		if validateGens > 0 && generation%validateGens == 0 {
			perf.StartPhase(telemetry.PhaseValidate)
			e.Validate(r)
		}

		perf.StartPhase(telemetry.PhaseTelemetry)
		population := e.CellCount()
		collector.RecordGeneration(stats.Spawns, stats.Deaths, population)

		if collector.ShouldFlush(generation) {
			window := collector.Flush(generation, population)
			window.Log()
			perfStats := perf.Stats()
			perfStats.LogStats()

			if err := output.WriteWindow(window); err != nil {
				slog.Error("failed to write window stats", "error", err)
				os.Exit(1)
			}
			if err := output.WritePerf(perfStats, generation); err != nil {
				slog.Error("failed to write perf stats", "error", err)
				os.Exit(1)
			}
		}
		perf.EndStep()

		if population == 0 {
			slog.Info("population extinct", "generation", generation)
			break
		}
	}

	if *snapshotDir != "" {
		ruleName := cfg.Rule.Preset
		if cfg.Rule.Notation != "" {
			ruleName = cfg.Rule.Notation
		}
		snap := &telemetry.Snapshot{
			Version:    telemetry.SnapshotVersion,
			RNGSeed:    rngSeed,
			Rule:       ruleName,
			Size:       size,
			Generation: lastGeneration,
			Cells:      e.ExportCells(),
		}
		path, err := telemetry.SaveSnapshot(snap, *snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			os.Exit(1)
		}
		slog.Info("saved snapshot", "path", path, "cells", len(snap.Cells))
	}

	slog.Info("simulation finished", "population", e.CellCount())
}
