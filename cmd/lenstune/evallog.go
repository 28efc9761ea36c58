package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// evalLog records every evaluation as a CSV row and tracks the best one.
type evalLog struct {
	w        *csv.Writer
	progress io.Writer
	maxEvals int
	start    time.Time

	count       int
	bestFitness float64
	bestParams  []float64
}

func newEvalLog(out, progress io.Writer, params *ParamVector, maxEvals int) (*evalLog, error) {
	l := &evalLog{
		w:           csv.NewWriter(out),
		progress:    progress,
		maxEvals:    maxEvals,
		start:       time.Now(),
		bestFitness: 1e9,
	}
	header := []string{"eval", "fitness", "mean_lum", "coverage", "peak_lum"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	l.w.Flush()
	return l, l.w.Error()
}

// Record logs one evaluation of the clamped parameter values.
func (l *evalLog) Record(values []float64, fitness float64, m FrameMetrics) error {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.bestParams = append(l.bestParams[:0], values...)
	}

	row := []string{
		strconv.Itoa(l.count),
		formatFloat(fitness),
		formatFloat(m.MeanLuminance),
		formatFloat(m.StarCoverage),
		formatFloat(m.PeakLuminance),
	}
	for _, v := range values {
		row = append(row, formatFloat(v))
	}
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()

	elapsed := time.Since(l.start)
	remaining := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Fprintf(l.progress, "Eval %d/%d: mean=%.4f coverage=%.4f peak=%.3f fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
		l.count, l.maxEvals, m.MeanLuminance, m.StarCoverage, m.PeakLuminance, fitness, l.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))
	return l.w.Error()
}

// Best returns the lowest-fitness parameters seen, or nil before any evaluation.
func (l *evalLog) Best() ([]float64, float64) {
	return l.bestParams, l.bestFitness
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// formatDuration formats a duration as 1h02m03s, or 2m03s for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
