// Package timeline derives the supernova explosion choreography from a clock.
package timeline

import (
	"math"

	"github.com/pthm-cable/cosmos/config"
)

// Params are the explosion constants. Rates are per second of local time.
type Params struct {
	Period float64

	CorePulseFreq float64 // rad/s; whole cycles per period keep the loop seamless
	CorePulseAmp  float64
	CoreFade      float64

	ExplosionSpeed float64
	InnerSpeed     float64
	OuterSpeed     float64
	InnerFade      float64
	OuterCeiling   float64
	OuterFade      float64
	InnerSpin      float64
	OuterSpin      float64

	ParticleFade float64
	Acceleration float64
}

// DefaultParams returns the standard ten second loop.
func DefaultParams() Params {
	return Params{
		Period:         10,
		CorePulseFreq:  config.SnapFrequency(10, 10),
		CorePulseAmp:   0.2,
		CoreFade:       0.2,
		ExplosionSpeed: 5,
		InnerSpeed:     1.5,
		OuterSpeed:     0.8,
		InnerFade:      0.3,
		OuterCeiling:   0.8,
		OuterFade:      0.2,
		InnerSpin:      0.6,
		OuterSpin:      -0.3,
		ParticleFade:   0.15,
		Acceleration:   1.2,
	}
}

// FromConfig builds Params from the loaded configuration.
func FromConfig(cfg *config.Config) Params {
	tc := cfg.Timeline
	return Params{
		Period:         tc.Period,
		CorePulseFreq:  cfg.Derived.CorePulseFreq,
		CorePulseAmp:   tc.CorePulseAmp,
		CoreFade:       tc.CoreFade,
		ExplosionSpeed: tc.ExplosionSpeed,
		InnerSpeed:     tc.InnerSpeed,
		OuterSpeed:     tc.OuterSpeed,
		InnerFade:      tc.InnerFade,
		OuterCeiling:   tc.OuterCeiling,
		OuterFade:      tc.OuterFade,
		InnerSpin:      tc.InnerSpin,
		OuterSpin:      tc.OuterSpin,
		ParticleFade:   tc.ParticleFade,
		Acceleration:   tc.Acceleration,
	}
}

// Phase is the animation state at one instant. It is never stored by the
// timeline; owners recompute it every frame.
type Phase struct {
	T float64 // Local time in [0, Period)

	CoreScale   float64
	CoreOpacity float64

	Shockwave1Scale    float64
	Shockwave1Opacity  float64
	Shockwave1Rotation float64 // About Z

	Shockwave2Scale    float64
	Shockwave2Opacity  float64
	Shockwave2Rotation float64 // About Y

	ParticleDisplacementFactor float64
	ParticleOpacity            float64
}

// Local wraps elapsed seconds into [0, Period).
func (p Params) Local(elapsed float64) float64 {
	if p.Period <= 0 {
		return 0
	}
	t := math.Mod(elapsed, p.Period)
	if t < 0 {
		t += p.Period
	}
	if t >= p.Period {
		t = 0
	}
	return t
}

// Cycle returns how many full periods have elapsed. Owners compare successive
// values to detect the wrap back to t = 0.
func (p Params) Cycle(elapsed float64) int64 {
	if p.Period <= 0 {
		return 0
	}
	return int64(math.Floor(elapsed / p.Period))
}

// At returns the phase for an elapsed time.
func (p Params) At(elapsed float64) Phase {
	t := p.Local(elapsed)
	grow := t * p.ExplosionSpeed
	return Phase{
		T: t,

		CoreScale:   1 + math.Sin(t*p.CorePulseFreq)*p.CorePulseAmp,
		CoreOpacity: math.Max(0, 1-t*p.CoreFade),

		Shockwave1Scale:    grow * p.InnerSpeed,
		Shockwave1Opacity:  math.Max(0, 1-t*p.InnerFade),
		Shockwave1Rotation: t * p.InnerSpin,

		Shockwave2Scale:    grow * p.OuterSpeed,
		Shockwave2Opacity:  math.Max(0, p.OuterCeiling-t*p.OuterFade),
		Shockwave2Rotation: t * p.OuterSpin,

		ParticleDisplacementFactor: t * p.Acceleration,
		ParticleOpacity:            math.Max(0, 1-t*p.ParticleFade),
	}
}
