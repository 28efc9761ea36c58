// Package lensing approximates gravitational light bending around a compact
// mass for each camera ray.
package lensing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/cosmos/camera"
)

// LensParams describe the lens and the camera observing it.
type LensParams struct {
	Position     r3.Vec // Lens center in world space
	Rs           float64
	PhotonSphere float64 // 1.5 * Rs
	Camera       r3.Vec
	ViewToWorld  mgl32.Mat4

	Epsilon        float64 // Bias on near-zero denominators
	MaxDeflection  float64
	DeflectionGain float64 // Numerator factor of the strong-field approximation

	RingWidth    float64 // Width of the photon ring Gaussian, in units of (ps - rs)
	RingGain     float64
	RingColor    mgl32.Vec3
	GlowColor    mgl32.Vec3 // Warm tint near the photon sphere
	GlowStrength float64
}

// NewLensParams returns lens parameters with the photon sphere derived
// from rs and default tuning.
func NewLensParams(position r3.Vec, rs float64) LensParams {
	if rs < 0 {
		rs = 0
	}
	return LensParams{
		Position:       position,
		Rs:             rs,
		PhotonSphere:   1.5 * rs,
		ViewToWorld:    mgl32.Ident4(),
		Epsilon:        1e-3,
		MaxDeflection:  math.Pi,
		DeflectionGain: 4,
		RingWidth:      0.35,
		RingGain:       5,
		RingColor:      mgl32.Vec3{1, 0.8, 0.6},
		GlowColor:      mgl32.Vec3{1, 0.5, 0},
		GlowStrength:   0.5,
	}
}

// WithPose returns a copy of l observed from the given camera pose.
func (l LensParams) WithPose(p camera.Pose) LensParams {
	l.Camera = r3.Vec{X: float64(p.Position[0]), Y: float64(p.Position[1]), Z: float64(p.Position[2])}
	l.ViewToWorld = p.Inverse
	return l
}

// Kind classifies how a ray interacts with the lens.
type Kind uint8

const (
	Deflected Kind = iota
	PhotonRing
	Captured
)

func (k Kind) String() string {
	switch k {
	case Captured:
		return "captured"
	case PhotonRing:
		return "photon_ring"
	}
	return "deflected"
}

// Result is the geometric outcome of tracing one ray.
type Result struct {
	Kind       Kind
	B          float64 // Impact parameter of the unbent ray
	Deflection float64 // Radians; zero unless Deflected
	Bent       r3.Vec  // Unit direction after bending
	Ring       float64 // Photon ring intensity; zero unless PhotonRing
}

// Background supplies the color seen along an escaping direction.
type Background interface {
	Sample(dir r3.Vec) mgl32.Vec3
}

// ImpactParameter returns the closest approach of the unbent ray to center.
// Rays heading away from the lens have their closest approach at the origin.
func ImpactParameter(origin, dir, center r3.Vec) float64 {
	toLens := r3.Sub(center, origin)
	n := r3.Norm(dir)
	if n == 0 {
		return r3.Norm(toLens)
	}
	d := r3.Scale(1/n, dir)
	if r3.Dot(d, toLens) < 0 {
		return r3.Norm(toLens)
	}
	return r3.Norm(r3.Cross(d, toLens))
}

// Deflection returns the bending angle for an impact parameter outside the
// photon sphere.
func (l LensParams) Deflection(b float64) float64 {
	b = math.Max(b, l.Epsilon)
	q := l.PhotonSphere / b
	denom := 1 - q*q + l.Epsilon
	if denom < l.Epsilon {
		denom = l.Epsilon
	}
	return math.Min(math.Max((l.DeflectionGain*l.Rs/b)/denom, 0), l.MaxDeflection)
}

// RingIntensity is the photon ring glow for b inside the ring band.
func (l LensParams) RingIntensity(b float64) float64 {
	span := math.Max(l.PhotonSphere-l.Rs, l.Epsilon)
	w := math.Max(l.RingWidth, l.Epsilon)
	x := (b - l.PhotonSphere) / span / w
	return l.RingGain * math.Exp(-x*x)
}

// Trace classifies a ray and bends it if it escapes.
func Trace(origin, dir r3.Vec, lens LensParams) Result {
	n := r3.Norm(dir)
	if n == 0 {
		return Result{Kind: Captured}
	}
	d := r3.Scale(1/n, dir)
	b := ImpactParameter(origin, d, lens.Position)

	switch {
	case b < lens.Rs:
		return Result{Kind: Captured, B: b, Bent: d}
	case b < lens.PhotonSphere:
		return Result{Kind: PhotonRing, B: b, Bent: d, Ring: lens.RingIntensity(b)}
	}

	res := Result{Kind: Deflected, B: b, Bent: d}
	toLens := r3.Sub(lens.Position, origin)
	dist := r3.Norm(toLens)
	if dist < lens.Epsilon || lens.Rs == 0 {
		return res
	}
	// Receding rays never pass the lens.
	if r3.Dot(d, toLens) <= 0 {
		return res
	}
	lensDir := r3.Scale(1/dist, toLens)

	axis := r3.Cross(d, lensDir)
	an := r3.Norm(axis)
	if an < lens.Epsilon*lens.Epsilon {
		return res
	}

	res.Deflection = lens.Deflection(b)
	rot := r3.NewRotation(res.Deflection, r3.Scale(1/an, axis))
	res.Bent = r3.Unit(rot.Rotate(d))
	return res
}

// Sample returns the lensed color for a ray. Captured rays are opaque black.
func Sample(origin, dir r3.Vec, lens LensParams, bg Background) mgl32.Vec4 {
	res := Trace(origin, dir, lens)
	return Shade(res, lens, bg)
}

// Shade colors a traced ray.
func Shade(res Result, lens LensParams, bg Background) mgl32.Vec4 {
	switch res.Kind {
	case Captured:
		return mgl32.Vec4{0, 0, 0, 1}
	case PhotonRing:
		c := lens.RingColor.Mul(float32(res.Ring))
		return mgl32.Vec4{c[0], c[1], c[2], 1}
	}

	var c mgl32.Vec3
	if bg != nil {
		c = bg.Sample(res.Bent)
	}
	glow := smoothstep(2*lens.PhotonSphere, 2*lens.Rs, res.B) * lens.GlowStrength
	c = c.Add(lens.GlowColor.Mul(float32(glow)))
	mag := 1 + 2*lens.Rs/math.Max(res.B, lens.Epsilon)
	c = c.Mul(float32(mag))
	return mgl32.Vec4{c[0], c[1], c[2], 1}
}

func smoothstep(e0, e1, x float64) float64 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := math.Min(math.Max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}
