package celestial

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/cosmos/scene"
)

// BlackHole is an event horizon with a photon ring, an accretion disk and a
// lensed sky.
type BlackHole struct {
	graph *scene.Graph
	lens  *LensedBackground

	disk     ecs.Entity
	diskSpin float64
}

// NewBlackHole builds the black hole skeleton at the origin.
func NewBlackHole(env Env) *BlackHole {
	cfg := env.Cfg
	rs := float32(cfg.Lens.Rs)
	g := scene.NewGraph()

	g.Add(scene.At(mgl32.Vec3{}), sphere(rs, mgl32.Vec3{}, 1, scene.BlendAlpha))

	g.Add(scene.At(mgl32.Vec3{}), scene.Drawable{
		Shape:   scene.ShapeTorus,
		Size:    mgl32.Vec3{float32(cfg.Derived.PhotonSphere), float32(cfg.BlackHole.RingTube)},
		Color:   cfg.Lens.RingColor.Vec3(),
		Opacity: 0.8,
		Blend:   scene.BlendAdditive,
	})

	prog, u := DiskProgram(cfg.BlackHole.Disk, env.Noise)
	tr := scene.At(mgl32.Vec3{})
	tr.Rotation[0] = float32(cfg.BlackHole.Disk.Tilt)
	disk := g.Add(tr, scene.Drawable{
		Shape:    scene.ShapeRing,
		Size:     mgl32.Vec3{u.InnerRadius, u.OuterRadius},
		Opacity:  1,
		Blend:    scene.BlendAdditive,
		Program:  prog,
		Uniforms: u,
	})

	return &BlackHole{
		graph:    g,
		lens:     NewLensedBackground(cfg, r3.Vec{}),
		disk:     disk,
		diskSpin: cfg.BlackHole.DiskSpin,
	}
}

// Kind implements Object.
func (b *BlackHole) Kind() Kind { return KindBlackHole }

// Graph implements Object.
func (b *BlackHole) Graph() *scene.Graph { return b.graph }

// Lensing implements Lensed.
func (b *BlackHole) Lensing() *LensedBackground { return b.lens }

// Advance implements Object.
func (b *BlackHole) Advance(t float64) {
	setTime(b.graph, t)
	if tr := b.graph.Transform(b.disk); tr != nil {
		tr.Rotation[2] = float32(t * b.diskSpin)
	}
}

// Release implements Object.
func (b *BlackHole) Release() {
	b.lens.Release()
	b.graph.Release()
}
