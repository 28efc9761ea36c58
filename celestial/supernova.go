package celestial

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/particles"
	"github.com/pthm-cable/cosmos/scene"
	"github.com/pthm-cable/cosmos/shading"
	"github.com/pthm-cable/cosmos/timeline"
)

// Supernova is a pulsing core, two expanding shockwave shells and a debris
// cloud, all driven by the explosion timeline.
type Supernova struct {
	graph    *scene.Graph
	timeline timeline.Params
	debris   *particles.Debris

	core, inner, outer, cloud ecs.Entity

	started    bool
	lastT      float64
	lastCycle  int64
	lastFactor float64
	phase      timeline.Phase
}

// DebrisParams converts the debris config section.
func DebrisParams(env Env) particles.DebrisParams {
	dc := env.Cfg.Debris
	return particles.DebrisParams{
		Count:     dc.Count,
		MinRadius: float32(dc.MinRadius),
		MaxRadius: float32(dc.MaxRadius),
		MinSpeed:  float32(dc.MinSpeed),
		MaxSpeed:  float32(dc.MaxSpeed),
		HueMin:    dc.HueMin,
		HueMax:    dc.HueMax,
		LightMin:  dc.LightMin,
		LightMax:  dc.LightMax,
	}
}

// NewSupernova generates the debris and builds the explosion skeleton.
func NewSupernova(env Env) *Supernova {
	cfg := env.Cfg
	s := &Supernova{
		graph:    scene.NewGraph(),
		timeline: timeline.FromConfig(cfg),
		debris:   particles.NewDebris(DebrisParams(env), env.Rng),
	}
	g := s.graph
	origin := scene.At(mgl32.Vec3{})

	s.core = g.Add(origin, sphere(2, mgl32.Vec3{1, 1, 1}, 1, scene.BlendAdditive))
	s.inner = g.Add(origin, sphere(1, mgl32.Vec3{1, 0.67, 0}, 1, scene.BlendAdditive))

	nc := cfg.Nebula
	neb := shading.NewNebula(shading.NebulaParams{
		Scale:     float32(nc.Scale),
		Drift:     float32(nc.Drift),
		EdgeBase:  float32(nc.EdgeBase),
		EdgeGain:  float32(nc.EdgeGain),
		EdgePower: float32(nc.EdgePower),
		Highlight: float32(nc.Highlight),
	}, env.Noise)
	s.outer = g.Add(origin, scene.Drawable{
		Shape:   scene.ShapeSphere,
		Size:    mgl32.Vec3{1},
		Opacity: 0.8,
		Blend:   scene.BlendAdditive,
		Program: neb,
		Uniforms: shading.SurfaceUniforms{
			InnerColor: nc.InnerColor.Vec3(),
			MidColor:   nc.MidColor.Vec3(),
			OuterColor: nc.OuterColor.Vec3(),
		},
	})

	s.cloud = g.Add(origin, scene.Drawable{
		Shape:     scene.ShapePoints,
		Opacity:   1,
		Blend:     scene.BlendAdditive,
		Points:    &s.debris.PointCloud,
		PointSize: float32(cfg.Debris.PointSize),
	})

	s.Advance(0)
	return s
}

// Kind implements Object.
func (s *Supernova) Kind() Kind { return KindSupernova }

// Graph implements Object.
func (s *Supernova) Graph() *scene.Graph { return s.graph }

// Phase returns the phase applied by the last Advance.
func (s *Supernova) Phase() timeline.Phase { return s.phase }

// Cycle returns the loop index seen by the last Advance.
func (s *Supernova) Cycle() int64 { return s.lastCycle }

// Debris returns the debris cloud.
func (s *Supernova) Debris() *particles.Debris { return s.debris }

// Advance implements Object. Debris is integrated with the midpoint of the
// displacement factor over the frame, which is exact for its linear ramp, and
// returns to its spawn shell whenever the loop wraps.
func (s *Supernova) Advance(t float64) {
	ph := s.timeline.At(t)
	cycle := s.timeline.Cycle(t)

	var dt, factor float64
	switch {
	case !s.started || cycle != s.lastCycle || t < s.lastT:
		s.debris.Reset()
		dt = ph.T
		factor = ph.ParticleDisplacementFactor / 2
	default:
		dt = t - s.lastT
		factor = (s.lastFactor + ph.ParticleDisplacementFactor) / 2
	}
	if dt > 0 {
		s.debris.Step(float32(dt), float32(factor))
	}
	s.started = true
	s.lastT = t
	s.lastCycle = cycle
	s.lastFactor = ph.ParticleDisplacementFactor
	s.phase = ph

	setTime(s.graph, t)
	s.apply(s.core, ph.CoreScale, ph.CoreOpacity, mgl32.Vec3{})
	s.apply(s.inner, ph.Shockwave1Scale, ph.Shockwave1Opacity, mgl32.Vec3{0, 0, float32(ph.Shockwave1Rotation)})
	s.apply(s.outer, ph.Shockwave2Scale, ph.Shockwave2Opacity, mgl32.Vec3{0, float32(ph.Shockwave2Rotation), 0})
	if d := s.graph.Drawable(s.cloud); d != nil {
		d.Opacity = float32(ph.ParticleOpacity)
	}
}

func (s *Supernova) apply(e ecs.Entity, scale, opacity float64, rot mgl32.Vec3) {
	if tr := s.graph.Transform(e); tr != nil {
		tr.Scale = float32(scale)
		tr.Rotation = rot
	}
	if d := s.graph.Drawable(e); d != nil {
		d.Opacity = float32(opacity)
	}
}

// Release implements Object.
func (s *Supernova) Release() {
	s.graph.Release()
	s.debris.Release()
}
