package main

import (
	"image/color"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cosmos/camera"
	"github.com/pthm-cable/cosmos/celestial"
	"github.com/pthm-cable/cosmos/config"
)

// Targets are the frame statistics the tuner steers toward.
type Targets struct {
	MeanLuminance float64 // Average over the whole frame
	StarCoverage  float64 // Fraction of pixels brighter than starCut
	PeakLuminance float64 // 99th percentile, dominated by the photon ring
}

// FrameMetrics summarizes one rendered background frame.
type FrameMetrics struct {
	MeanLuminance float64
	StarCoverage  float64
	PeakLuminance float64
}

// starCut is the luminance above which a pixel counts as a star or ring pixel.
const starCut = 0.35

// view is one camera orbit the background is rendered from.
type view struct {
	yaw, pitch float32
}

var views = []view{{0, 0}, {1.1, 0.35}, {-2.2, -0.5}}

// FitnessEvaluator renders the lensed background headlessly and scores it.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	targets    Targets
	w, h       int

	mu          sync.Mutex
	lastMetrics FrameMetrics
}

// NewFitnessEvaluator creates a new evaluator rendering at w*h.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, targets Targets, w, h int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		targets:    targets,
		w:          w,
		h:          h,
	}
}

// LastMetrics returns the averaged metrics from the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() FrameMetrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate returns the squared relative error between the rendered frames and
// the targets. Lower is better.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, raw)

	bg := celestial.NewLensedBackground(&cfg, r3.Vec{})
	defer bg.Release()

	cam := camera.New(float32(fe.w), float32(fe.h), float32(cfg.Scene.CameraFOV), float32(cfg.Scene.CameraDistance))

	var avg FrameMetrics
	for _, v := range views {
		cam.Yaw, cam.Pitch = v.yaw, v.pitch
		m := Measure(bg.Frame(cam.Pose(), fe.w, fe.h))
		avg.MeanLuminance += m.MeanLuminance / float64(len(views))
		avg.StarCoverage += m.StarCoverage / float64(len(views))
		avg.PeakLuminance += m.PeakLuminance / float64(len(views))
	}

	fe.mu.Lock()
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return relErr(avg.MeanLuminance, fe.targets.MeanLuminance) +
		relErr(avg.StarCoverage, fe.targets.StarCoverage) +
		relErr(avg.PeakLuminance, fe.targets.PeakLuminance)
}

// Measure computes luminance statistics for a frame.
func Measure(px []color.RGBA) FrameMetrics {
	if len(px) == 0 {
		return FrameMetrics{}
	}
	lum := make([]float64, len(px))
	lit := 0
	for i, c := range px {
		l := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
		lum[i] = l
		if l > starCut {
			lit++
		}
	}
	mean := stat.Mean(lum, nil)
	sort.Float64s(lum)
	return FrameMetrics{
		MeanLuminance: mean,
		StarCoverage:  float64(lit) / float64(len(px)),
		PeakLuminance: stat.Quantile(0.99, stat.Empirical, lum, nil),
	}
}

func relErr(got, want float64) float64 {
	d := got - want
	if want != 0 {
		d /= want
	}
	if math.IsNaN(d) {
		return 1e6
	}
	return d * d
}
