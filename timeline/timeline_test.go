package timeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/cosmos/config"
)

func phaseFields(p Phase) []float64 {
	return []float64{
		p.CoreScale, p.CoreOpacity,
		p.Shockwave1Scale, p.Shockwave1Opacity, p.Shockwave1Rotation,
		p.Shockwave2Scale, p.Shockwave2Opacity, p.Shockwave2Rotation,
		p.ParticleDisplacementFactor, p.ParticleOpacity,
	}
}

func TestPeriodicity(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		tm := rng.Float64() * 200
		a := phaseFields(p.At(tm))
		b := phaseFields(p.At(tm + p.Period))
		for j := range a {
			if math.Abs(a[j]-b[j]) > 1e-9 {
				t.Fatalf("t=%f field %d: %f vs %f one period later", tm, j, a[j], b[j])
			}
		}
	}
}

func TestCorePulseSeamless(t *testing.T) {
	p := DefaultParams()
	start := p.At(0).CoreScale
	end := 1 + math.Sin(p.Period*p.CorePulseFreq)*p.CorePulseAmp
	if math.Abs(start-end) > 1e-9 {
		t.Errorf("expected core scale continuous across the wrap, got %f and %f", start, end)
	}
}

func TestScenarioLoop(t *testing.T) {
	p := DefaultParams()
	times := []float64{0, 5, 9.9, 10.0}
	phases := make([]Phase, len(times))
	for i, tm := range times {
		phases[i] = p.At(tm)
	}

	if phases[3].Shockwave1Opacity != phases[0].Shockwave1Opacity {
		t.Errorf("expected shockwave 1 opacity at t=10 to equal t=0: %f vs %f",
			phases[3].Shockwave1Opacity, phases[0].Shockwave1Opacity)
	}
	if phases[3].Shockwave2Opacity != phases[0].Shockwave2Opacity {
		t.Errorf("expected shockwave 2 opacity at t=10 to equal t=0: %f vs %f",
			phases[3].Shockwave2Opacity, phases[0].Shockwave2Opacity)
	}
	if phases[0].Shockwave1Opacity != 1 || phases[0].Shockwave2Opacity != 0.8 {
		t.Errorf("unexpected opacities at t=0: %f, %f", phases[0].Shockwave1Opacity, phases[0].Shockwave2Opacity)
	}
	if phases[1].Shockwave1Opacity >= phases[0].Shockwave1Opacity {
		t.Errorf("expected shockwave faded by t=5, got %f", phases[1].Shockwave1Opacity)
	}
}

func TestOpacityMonotonic(t *testing.T) {
	p := DefaultParams()
	opacities := map[string]func(Phase) float64{
		"core":       func(ph Phase) float64 { return ph.CoreOpacity },
		"shockwave1": func(ph Phase) float64 { return ph.Shockwave1Opacity },
		"shockwave2": func(ph Phase) float64 { return ph.Shockwave2Opacity },
		"particles":  func(ph Phase) float64 { return ph.ParticleOpacity },
	}

	for name, get := range opacities {
		t.Run(name, func(t *testing.T) {
			prev := get(p.At(0))
			for tm := 0.01; tm < p.Period; tm += 0.01 {
				cur := get(p.At(tm))
				if cur < 0 {
					t.Fatalf("t=%f: negative opacity %f", tm, cur)
				}
				if cur > prev {
					t.Fatalf("t=%f: opacity rose from %f to %f", tm, prev, cur)
				}
				if prev > 0 && cur >= prev {
					t.Fatalf("t=%f: expected strictly decreasing while visible, got %f after %f", tm, cur, prev)
				}
				prev = cur
			}
		})
	}
}

func TestScalesGrow(t *testing.T) {
	p := DefaultParams()
	ph := p.At(2)
	if ph.Shockwave1Scale != 2*5*1.5 {
		t.Errorf("expected shockwave 1 scale 15, got %f", ph.Shockwave1Scale)
	}
	if math.Abs(ph.Shockwave2Scale-2*5*0.8) > 1e-12 {
		t.Errorf("expected shockwave 2 scale 8, got %f", ph.Shockwave2Scale)
	}
	if math.Abs(ph.ParticleDisplacementFactor-2.4) > 1e-12 {
		t.Errorf("expected displacement factor 2.4, got %f", ph.ParticleDisplacementFactor)
	}
	if ph.Shockwave1Rotation <= 0 || ph.Shockwave2Rotation >= 0 {
		t.Errorf("expected counter-rotating shells, got %f and %f", ph.Shockwave1Rotation, ph.Shockwave2Rotation)
	}
}

func TestLocalAndCycle(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		elapsed float64
		local   float64
		cycle   int64
	}{
		{0, 0, 0},
		{3.5, 3.5, 0},
		{10, 0, 1},
		{23, 3, 2},
		{-1, 9, -1},
	}
	for _, tc := range tests {
		if got := p.Local(tc.elapsed); math.Abs(got-tc.local) > 1e-12 {
			t.Errorf("Local(%f): expected %f, got %f", tc.elapsed, tc.local, got)
		}
		if got := p.Cycle(tc.elapsed); got != tc.cycle {
			t.Errorf("Cycle(%f): expected %d, got %d", tc.elapsed, tc.cycle, got)
		}
	}

	var zero Params
	if zero.Local(5) != 0 || zero.Cycle(5) != 0 {
		t.Error("expected zero period to pin local time at 0")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	p := FromConfig(cfg)
	if p.Period != cfg.Timeline.Period {
		t.Errorf("expected period %f, got %f", cfg.Timeline.Period, p.Period)
	}
	if p.CorePulseFreq != cfg.Derived.CorePulseFreq {
		t.Errorf("expected snapped pulse frequency %f, got %f", cfg.Derived.CorePulseFreq, p.CorePulseFreq)
	}
	def := DefaultParams()
	if p != def {
		t.Errorf("expected embedded defaults to match DefaultParams:\n%+v\n%+v", p, def)
	}
}
