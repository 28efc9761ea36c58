package celestial

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/scene"
	"github.com/pthm-cable/cosmos/shading"
)

// Pulsar is a spinning neutron star with two beams and magnetic field rings.
type Pulsar struct {
	graph *scene.Graph
	group ecs.Entity

	spinRate   float64
	wobbleFreq float64
	wobbleAmp  float64
}

// NewPulsar builds the pulsar skeleton at the origin.
func NewPulsar(env Env) *Pulsar {
	pc := env.Cfg.Pulsar
	g := scene.NewGraph()
	group := g.AddGroup(scene.At(mgl32.Vec3{}))

	g.Add(scene.Under(group), sphere(float32(pc.StarRadius), pc.StarColor.Vec3(), 1, scene.BlendAlpha))

	beam := jetProgram(env.Cfg.Jet)
	bu := shading.SurfaceUniforms{
		InnerColor:  pc.BeamColor.Vec3(),
		OuterColor:  pc.BeamColor.Vec3(),
		InnerRadius: float32(pc.BeamLength / 2),
		OuterRadius: float32(pc.BeamLength),
	}
	half := float32(pc.BeamLength / 2)
	for _, dir := range []float32{1, -1} {
		tr := scene.Under(group)
		tr.Position = mgl32.Vec3{0, dir * half, 0}
		if dir < 0 {
			tr.Rotation[0] = math.Pi
		}
		g.Add(tr, scene.Drawable{
			Shape:    scene.ShapeCylinder,
			Size:     mgl32.Vec3{0, float32(pc.BeamRadius), float32(pc.BeamLength)},
			Opacity:  0.6,
			Blend:    scene.BlendAdditive,
			Program:  beam,
			Uniforms: bu,
		})
	}

	for i, r := range pc.FieldRadii {
		tr := scene.Under(group)
		tr.Rotation[0] = math.Pi / 2
		g.Add(tr, scene.Drawable{
			Shape:   scene.ShapeTorus,
			Size:    mgl32.Vec3{float32(r), float32(pc.FieldTube)},
			Color:   pc.FieldColor.Vec3(),
			Opacity: float32(math.Max(0.1, 0.3-0.1*float64(i))),
			Blend:   scene.BlendAdditive,
		})
	}

	return &Pulsar{
		graph:      g,
		group:      group,
		spinRate:   pc.SpinRate,
		wobbleFreq: pc.WobbleFreq,
		wobbleAmp:  pc.WobbleAmp,
	}
}

// Kind implements Object.
func (p *Pulsar) Kind() Kind { return KindPulsar }

// Graph implements Object.
func (p *Pulsar) Graph() *scene.Graph { return p.graph }

// Advance implements Object.
func (p *Pulsar) Advance(t float64) {
	setTime(p.graph, t)
	tr := p.graph.Transform(p.group)
	if tr == nil {
		return
	}
	tr.Rotation[1] = float32(math.Mod(t*p.spinRate, 2*math.Pi))
	tr.Rotation[2] = float32(math.Sin(t*p.wobbleFreq) * p.wobbleAmp)
}

// Release implements Object.
func (p *Pulsar) Release() {
	p.graph.Release()
}
