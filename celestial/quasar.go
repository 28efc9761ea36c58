package celestial

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/cosmos/scene"
	"github.com/pthm-cable/cosmos/shading"
)

// Quasar is a black core inside a bright glow and faint halo, a tilted
// accretion disk with Doppler beaming, and two opposed relativistic jets.
type Quasar struct {
	graph *scene.Graph
}

// NewQuasar builds the quasar skeleton at the origin.
func NewQuasar(env Env) *Quasar {
	cfg := env.Cfg
	qc := cfg.Quasar
	g := scene.NewGraph()
	origin := scene.At(mgl32.Vec3{})

	g.Add(origin, sphere(float32(qc.EyeRadius), mgl32.Vec3{}, 1, scene.BlendAlpha))
	g.Add(origin, sphere(float32(qc.GlowRadius), mgl32.Vec3{1, 1, 1}, float32(qc.GlowOpacity), scene.BlendAdditive))
	g.Add(origin, sphere(float32(qc.HaloRadius), qc.HaloColor.Vec3(), float32(qc.HaloOpacity), scene.BlendAdditive))

	prog, u := DiskProgram(qc.Disk, env.Noise)
	tr := origin
	tr.Rotation[0] = float32(qc.Disk.Tilt)
	g.Add(tr, scene.Drawable{
		Shape:    scene.ShapeRing,
		Size:     mgl32.Vec3{u.InnerRadius, u.OuterRadius},
		Opacity:  1,
		Blend:    scene.BlendAdditive,
		Program:  prog,
		Uniforms: u,
	})

	jet := jetProgram(cfg.Jet)
	ju := shading.SurfaceUniforms{
		InnerColor:  cfg.Jet.CoreColor.Vec3(),
		OuterColor:  cfg.Jet.GlowColor.Vec3(),
		InnerRadius: float32(cfg.Jet.NearLength),
		OuterRadius: float32(cfg.Jet.FarLength),
	}
	half := float32(qc.JetLength / 2)
	for _, dir := range []float32{1, -1} {
		tr := scene.At(mgl32.Vec3{0, dir * half, 0})
		if dir < 0 {
			tr.Rotation[0] = math.Pi
		}
		g.Add(tr, scene.Drawable{
			Shape:    scene.ShapeCylinder,
			Size:     mgl32.Vec3{float32(qc.JetTopRadius), float32(qc.JetBottomRadius), float32(qc.JetLength)},
			Opacity:  1,
			Blend:    scene.BlendAdditive,
			Program:  jet,
			Deform:   jet,
			Uniforms: ju,
		})
	}

	return &Quasar{graph: g}
}

// Kind implements Object.
func (q *Quasar) Kind() Kind { return KindQuasar }

// Graph implements Object.
func (q *Quasar) Graph() *scene.Graph { return q.graph }

// Advance implements Object.
func (q *Quasar) Advance(t float64) {
	setTime(q.graph, t)
}

// Release implements Object.
func (q *Quasar) Release() {
	q.graph.Release()
}
