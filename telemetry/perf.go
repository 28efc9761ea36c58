package telemetry

import (
	"log/slog"
	"time"
)

// Phase is a timed section of one rendered frame.
type Phase uint8

const (
	PhaseSelect Phase = iota
	PhaseAdvance
	PhaseLensing
	PhaseSurfaces
	PhasePoints
	PhaseDraw
	numPhases
)

// Phases lists the frame phases in execution order.
var Phases = []Phase{PhaseSelect, PhaseAdvance, PhaseLensing, PhaseSurfaces, PhasePoints, PhaseDraw}

var phaseNames = [numPhases]string{"select", "advance", "lensing", "surfaces", "points", "draw"}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [numPhases]time.Duration

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	Frame  time.Duration
	Phases PhaseTimes
}

// PerfCollector tracks frame timings over a rolling window. Time spent
// before the first StartPhase of a frame counts toward the frame only.
type PerfCollector struct {
	samples     []PerfSample // ring buffer
	writeIndex  int
	sampleCount int

	current    PerfSample
	frameStart time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Wall-clock interval between presented frames (graphics mode)
	lastPresent time.Time
	presentGap  time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and begins timing phase.
// Re-entering a phase adds to its total for the frame.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	if phase >= numPhases {
		return
	}
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	p.closePhase(now)
	p.current.Frame = now.Sub(p.frameStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// RecordPresent records the time a frame reached the screen.
func (p *PerfCollector) RecordPresent() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentGap = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// Durations returns the frame durations currently in the window, oldest first.
func (p *PerfCollector) Durations() []time.Duration {
	out := make([]time.Duration, 0, p.sampleCount)
	start := 0
	if p.sampleCount == len(p.samples) {
		start = p.writeIndex
	}
	for i := 0; i < p.sampleCount; i++ {
		out = append(out, p.samples[(start+i)%len(p.samples)].Frame)
	}
	return out
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	PhaseAvg PhaseTimes
	PhasePct [numPhases]float64 // Share of the average frame

	// Frames the engine could produce per second at the average cost
	FramesPerSecond float64

	// Presented frame rate (graphics mode)
	PresentGap time.Duration
	FPS        float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{PresentGap: p.presentGap}
	if p.presentGap > 0 {
		s.FPS = float64(time.Second) / float64(p.presentGap)
	}

	frames := p.Durations()
	if len(frames) == 0 {
		return s
	}

	var total time.Duration
	s.MinFrameDuration = frames[0]
	for _, d := range frames {
		total += d
		s.MinFrameDuration = min(s.MinFrameDuration, d)
		s.MaxFrameDuration = max(s.MaxFrameDuration, d)
	}
	n := time.Duration(len(frames))
	s.AvgFrameDuration = total / n

	var phaseSum PhaseTimes
	for _, sample := range p.samples[:p.sampleCount] {
		for i, d := range sample.Phases {
			phaseSum[i] += d
		}
	}
	for i, sum := range phaseSum {
		s.PhaseAvg[i] = sum / n
		if s.AvgFrameDuration > 0 {
			s.PhasePct[i] = float64(s.PhaseAvg[i]) / float64(s.AvgFrameDuration) * 100
		}
	}

	if s.AvgFrameDuration > 0 {
		s.FramesPerSecond = float64(time.Second) / float64(s.AvgFrameDuration)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase.String()+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame        int64   `csv:"frame"`
	Selection    string  `csv:"selection"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	FPS          float64 `csv:"fps"`
	SelectPct    float64 `csv:"select_pct"`
	AdvancePct   float64 `csv:"advance_pct"`
	LensingPct   float64 `csv:"lensing_pct"`
	SurfacesPct  float64 `csv:"surfaces_pct"`
	PointsPct    float64 `csv:"points_pct"`
	DrawPct      float64 `csv:"draw_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame int64, selection string) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:        frame,
		Selection:    selection,
		AvgFrameUS:   s.AvgFrameDuration.Microseconds(),
		MinFrameUS:   s.MinFrameDuration.Microseconds(),
		MaxFrameUS:   s.MaxFrameDuration.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		FPS:          s.FPS,
		SelectPct:    s.PhasePct[PhaseSelect],
		AdvancePct:   s.PhasePct[PhaseAdvance],
		LensingPct:   s.PhasePct[PhaseLensing],
		SurfacesPct:  s.PhasePct[PhaseSurfaces],
		PointsPct:    s.PhasePct[PhasePoints],
		DrawPct:      s.PhasePct[PhaseDraw],
	}
}
