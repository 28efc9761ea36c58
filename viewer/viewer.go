// Package viewer runs the frame loop that shows one celestial object at a
// time, either in a raylib window or headless for profiling.
package viewer

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/pthm-cable/cosmos/camera"
	"github.com/pthm-cable/cosmos/celestial"
	"github.com/pthm-cable/cosmos/config"
	"github.com/pthm-cable/cosmos/renderer"
	"github.com/pthm-cable/cosmos/telemetry"
)

// Options configures a viewer.
type Options struct {
	Seed           int64
	Initial        celestial.Selection
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
}

// Viewer holds the complete viewer state.
type Viewer struct {
	cfg      *config.Config
	composer *celestial.Composer
	cam      *camera.Camera
	pose     camera.Pose

	// Clock
	elapsed float64
	frame   int64
	paused  bool
	dt      float64 // Fixed step used in headless mode

	// Telemetry
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	logStats    bool
	statsWindow float64
	lastFlush   float64

	// Rendering (nil in headless mode)
	surfaces *renderer.SurfaceRenderer
	points   *renderer.PointRenderer
	lens     *renderer.LensRenderer

	lensPixels []color.RGBA
	lensActive bool
	shown      celestial.Selection

	screenW, screenH float32
	headless         bool
}

// New creates a viewer. In graphical mode the raylib window must already exist.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	env, err := celestial.NewEnv(cfg, opts.Seed)
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	dt := 1.0 / 60
	if cfg.Screen.TargetFPS > 0 {
		dt = 1 / float64(cfg.Screen.TargetFPS)
	}

	v := &Viewer{
		cfg:         cfg,
		composer:    celestial.NewComposer(env, opts.Initial),
		cam:         camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, float32(cfg.Scene.CameraFOV), float32(cfg.Scene.CameraDistance)),
		dt:          dt,
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:      output,
		logStats:    opts.LogStats,
		statsWindow: statsWindow,
		shown:       celestial.SelectHouse,
		screenW:     cfg.Derived.ScreenW32,
		screenH:     cfg.Derived.ScreenH32,
		headless:    opts.Headless,
	}
	v.pose = v.cam.Pose()

	if !opts.Headless {
		v.surfaces = renderer.NewSurfaceRenderer()
		v.points = renderer.NewPointRenderer()
		v.lens = renderer.NewLensRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
		v.lens.Init(cfg.Derived.LensW, cfg.Derived.LensH)
	}

	return v, nil
}

// Select requests a different object; it is built on the next frame.
func (v *Viewer) Select(s celestial.Selection) {
	v.composer.Select(s)
}

// UpdateHeadless advances one fixed step without drawing. The lensed
// background is still computed so frame timings cover the CPU path.
func (v *Viewer) UpdateHeadless() error {
	v.perf.StartFrame()
	err := v.step(v.dt)
	v.perf.EndFrame()
	v.flushTelemetry()
	return err
}

// step runs the selection, animation and lensing phases of one frame.
func (v *Viewer) step(dt float64) error {
	v.perf.StartPhase(telemetry.PhaseSelect)
	if err := v.composer.Apply(); err != nil {
		return fmt.Errorf("applying selection: %w", err)
	}
	if sel := v.composer.Selection(); sel != v.shown {
		v.shown = sel
		if v.surfaces != nil {
			v.surfaces.Reset()
		}
	}

	v.perf.StartPhase(telemetry.PhaseAdvance)
	if !v.paused {
		v.elapsed += dt
	}
	v.frame++
	if err := v.composer.Advance(v.elapsed); err != nil {
		return err
	}
	v.pose = v.cam.Pose()

	v.perf.StartPhase(telemetry.PhaseLensing)
	v.lensActive = false
	if l, ok := v.composer.Current().(celestial.Lensed); ok {
		w, h := v.cfg.Derived.LensW, v.cfg.Derived.LensH
		v.lensPixels = l.Lensing().Frame(v.pose, w, h)
		v.lensActive = true
		if v.lens != nil {
			v.lens.Update(v.lensPixels)
		}
	}
	return nil
}

// flushTelemetry logs and writes a stats window once enough time has passed.
func (v *Viewer) flushTelemetry() {
	if v.elapsed-v.lastFlush < v.statsWindow {
		return
	}
	v.lastFlush = v.elapsed

	stats := v.windowStats()
	perfStats := v.perf.Stats()

	if v.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if v.output != nil {
		if err := v.output.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := v.output.WritePerf(perfStats, v.frame, stats.Selection); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

func (v *Viewer) windowStats() telemetry.WindowStats {
	s := telemetry.WindowStats{
		Frame:     v.frame,
		SimTime:   v.elapsed,
		Selection: v.composer.Selection().String(),
	}
	if obj := v.composer.Current(); obj != nil {
		s.Nodes = obj.Graph().Len()
		s.Particles = obj.Graph().PointCount()
		if sn, ok := obj.(*celestial.Supernova); ok {
			s.Cycle = sn.Cycle()
		}
	}
	s.SetFrames(v.perf.Durations())
	return s
}

// Unload releases the current object and closes output files.
func (v *Viewer) Unload() {
	v.composer.Release()
	if v.lens != nil {
		v.lens.Unload()
	}
	if err := v.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Frame returns the number of frames stepped.
func (v *Viewer) Frame() int64 {
	return v.frame
}

// Elapsed returns the animation clock in seconds.
func (v *Viewer) Elapsed() float64 {
	return v.elapsed
}

// Current returns the object on screen, or nil.
func (v *Viewer) Current() celestial.Object {
	return v.composer.Current()
}

// LensFrame returns the last lensed background frame, or nil when the
// current object does not lens.
func (v *Viewer) LensFrame() []color.RGBA {
	if !v.lensActive {
		return nil
	}
	return v.lensPixels
}
