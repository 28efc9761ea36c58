package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cosmos/celestial"
	"github.com/pthm-cable/cosmos/config"
	"github.com/pthm-cable/cosmos/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	object := flag.String("object", "", "Initial selection: house, black_hole, quasar, pulsar, galaxy, supernova (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	name := cfg.Scene.Initial
	if *object != "" {
		name = *object
	}
	initial, err := celestial.ParseSelection(name)
	if err != nil {
		slog.Error("invalid selection", "error", err)
		os.Exit(1)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Scene.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := viewer.Options{
		Seed:           rngSeed,
		Initial:        initial,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
	}

	if *headless {
		// Headless mode - CPU only, no raylib needed
		v, err := viewer.New(cfg, opts)
		if err != nil {
			slog.Error("failed to start viewer", "error", err)
			os.Exit(1)
		}
		defer v.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"object", initial.String(),
			"max_frames", *maxFrames,
		)

		for {
			if err := v.UpdateHeadless(); err != nil {
				slog.Error("frame failed", "error", err)
				return
			}

			if *maxFrames > 0 && v.Frame() >= int64(*maxFrames) {
				slog.Info("max frames reached", "frame", v.Frame())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Cosmos")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := viewer.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer v.Unload()

	for !rl.WindowShouldClose() {
		if err := v.Update(); err != nil {
			slog.Error("frame failed", "error", err)
			return
		}
		v.Draw()

		if *maxFrames > 0 && v.Frame() >= int64(*maxFrames) {
			break
		}
	}
}
