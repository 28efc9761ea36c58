// Package main provides CMA-ES tuning of the lensed starfield so the black
// hole background hits target brightness statistics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/cosmos/config"
)

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxEvals := flag.Int("max-evals", 150, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	width := flag.Int("width", 96, "Render width of each evaluated frame")
	height := flag.Int("height", 54, "Render height of each evaluated frame")
	meanLum := flag.Float64("mean", 0.03, "Target mean luminance")
	coverage := flag.Float64("coverage", 0.01, "Target fraction of bright pixels")
	peak := flag.Float64("peak", 0.8, "Target 99th percentile luminance")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if *outputDir == "" {
		fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("failed to create output directory", "error", err)
	}

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", "error", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	targets := Targets{MeanLuminance: *meanLum, StarCoverage: *coverage, PeakLuminance: *peak}
	evaluator := NewFitnessEvaluator(params, baseCfg, targets, *width, *height)

	logFile, err := os.Create(filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		fatal("failed to create log file", "error", err)
	}
	defer logFile.Close()

	evals, err := newEvalLog(logFile, os.Stdout, params, *maxEvals)
	if err != nil {
		fatal("failed to start eval log", "error", err)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			if err := evals.Record(values, fitness, evaluator.LastMetrics()); err != nil {
				slog.Error("failed to record evaluation", "error", err)
			}
			return fitness
		},
	}

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n", dim, popSize, *maxEvals)
	fmt.Printf("Targets: mean=%.4f coverage=%.4f peak=%.3f at %dx%d\n", *meanLum, *coverage, *peak, *width, *height)

	start := time.Now()
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}

	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		slog.Warn("tuning ended", "error", err)
	}

	best, bestFitness := evals.Best()
	if best == nil {
		fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evals.count, formatDuration(time.Since(start)))
	fmt.Printf("Best fitness: %.5f\n\nBest parameters:\n", bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, best[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to reload config", "error", err)
	}
	params.ApplyToConfig(bestCfg, best)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		fatal("failed to write best config", "error", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
