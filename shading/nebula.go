package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/cosmos/noise"
)

// NebulaParams tune the nebula shell program.
type NebulaParams struct {
	Scale     float32 // Noise frequency over local position
	Drift     float32 // Turbulence advection speed
	EdgeBase  float32 // Opacity when viewed face-on
	EdgeGain  float32 // Extra opacity at the silhouette
	EdgePower float32
	Highlight float32 // Strength of MidColor in the densest regions
}

// DefaultNebulaParams returns the supernova shell tuning.
func DefaultNebulaParams() NebulaParams {
	return NebulaParams{
		Scale:     0.6,
		Drift:     0.15,
		EdgeBase:  0.15,
		EdgeGain:  0.85,
		EdgePower: 2,
		Highlight: 0.6,
	}
}

// Nebula shades a closed shell with projected 3D-looking turbulence.
type Nebula struct {
	NebulaParams
	Noise noise.Kernel
}

// NewNebula creates a nebula program sampling k.
func NewNebula(p NebulaParams, k noise.Kernel) *Nebula {
	return &Nebula{NebulaParams: p, Noise: k}
}

// Density returns the turbulence field in [0, 1] at a local position.
func (n *Nebula) Density(pos mgl32.Vec3, time float32) float32 {
	p := pos.Mul(n.Scale)
	d := float64(time * n.Drift)
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])

	v := 0.5*n.Noise.Eval2(x+d, y) +
		0.3*n.Noise.Eval2(y, z-d) +
		0.2*n.Noise.Eval2(z+d, x)
	return Clamp01(float32(v)*0.5 + 0.5)
}

// Shade implements Program.
func (n *Nebula) Shade(f Fragment, u SurfaceUniforms) mgl32.Vec4 {
	density := n.Density(f.Pos, u.Time)

	c := Mix(u.InnerColor, u.OuterColor, density)
	c = c.Add(u.MidColor.Mul(density * density * density * n.Highlight))

	var facing float32
	if nl, vl := f.Normal.Len(), f.View.Len(); nl > 0 && vl > 0 {
		facing = abs32(f.Normal.Dot(f.View) / (nl * vl))
	}
	edge := float32(math.Pow(float64(1-Clamp01(facing)), float64(n.EdgePower)))

	alpha := Clamp01(density * (n.EdgeBase + n.EdgeGain*edge))
	return mgl32.Vec4{c[0], c[1], c[2], alpha}
}
