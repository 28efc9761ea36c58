package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// WindowStats summarizes one logging window of the frame loop.
type WindowStats struct {
	Frame     int64   `csv:"frame"`
	SimTime   float64 `csv:"sim_time"`
	Selection string  `csv:"selection"`

	// Scene size at window end
	Nodes     int `csv:"nodes"`
	Particles int `csv:"particles"`

	// Explosion loop index (supernova only)
	Cycle int64 `csv:"cycle"`

	// Frame cost distribution in milliseconds
	FrameMean float64 `csv:"frame_mean_ms"`
	FrameStd  float64 `csv:"frame_std_ms"`
	FrameP50  float64 `csv:"frame_p50_ms"`
	FrameP90  float64 `csv:"frame_p90_ms"`
	FrameP99  float64 `csv:"frame_p99_ms"`
}

// Quantile returns the empirical p-quantile of sorted. Returns 0 if sorted is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeFrameStats returns mean, standard deviation and quantiles of
// frame durations in milliseconds.
func ComputeFrameStats(durations []time.Duration) (mean, std, p50, p90, p99 float64) {
	n := len(durations)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	ms := make([]float64, n)
	for i, d := range durations {
		ms[i] = float64(d) / float64(time.Millisecond)
	}

	if n == 1 {
		mean = ms[0]
	} else {
		mean, std = stat.MeanStdDev(ms, nil)
	}

	sort.Float64s(ms)
	p50 = Quantile(ms, 0.50)
	p90 = Quantile(ms, 0.90)
	p99 = Quantile(ms, 0.99)

	return mean, std, p50, p90, p99
}

// SetFrames fills the frame cost fields from raw durations.
func (s *WindowStats) SetFrames(durations []time.Duration) {
	s.FrameMean, s.FrameStd, s.FrameP50, s.FrameP90, s.FrameP99 = ComputeFrameStats(durations)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.Frame),
		slog.Float64("sim_time", s.SimTime),
		slog.String("selection", s.Selection),
		slog.Int("nodes", s.Nodes),
		slog.Int("particles", s.Particles),
		slog.Int64("cycle", s.Cycle),
		slog.Float64("frame_mean_ms", s.FrameMean),
		slog.Float64("frame_std_ms", s.FrameStd),
		slog.Float64("frame_p50_ms", s.FrameP50),
		slog.Float64("frame_p90_ms", s.FrameP90),
		slog.Float64("frame_p99_ms", s.FrameP99),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"frame", s.Frame,
		"sim_time", s.SimTime,
		"selection", s.Selection,
		"nodes", s.Nodes,
		"particles", s.Particles,
		"cycle", s.Cycle,
		"frame_mean_ms", s.FrameMean,
		"frame_std_ms", s.FrameStd,
		"frame_p50_ms", s.FrameP50,
		"frame_p90_ms", s.FrameP90,
		"frame_p99_ms", s.FrameP99,
	)
}
