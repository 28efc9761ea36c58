// Package shading implements per-pixel procedural color programs for accretion
// disks, relativistic jets and nebula shells.
package shading

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SurfaceUniforms are the per-program parameters. Time is the only field
// updated per frame.
type SurfaceUniforms struct {
	Time        float32
	InnerColor  mgl32.Vec3
	MidColor    mgl32.Vec3
	OuterColor  mgl32.Vec3
	InnerRadius float32
	OuterRadius float32
}

// Fragment is the surface point being shaded, in the program's local space.
type Fragment struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	View   mgl32.Vec3 // Direction from the surface toward the eye
}

// Program computes a color (rgb) and coverage (a) for a fragment.
// Shade must be free of side effects.
type Program interface {
	Shade(f Fragment, u SurfaceUniforms) mgl32.Vec4
}

// Deformer moves surface vertices over time before shading.
type Deformer interface {
	Displace(pos mgl32.Vec3, time float32) mgl32.Vec3
}

// Smoothstep is the cubic Hermite ramp between e0 and e1. Reversed edges
// produce a falling ramp; equal edges degrade to a step at e0.
func Smoothstep(e0, e1, x float32) float32 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Mix linearly interpolates between a and b.
func Mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// ToRGBA converts a shaded color to 8-bit channels, clamping HDR values.
func ToRGBA(c mgl32.Vec4) color.RGBA {
	return color.RGBA{
		R: uint8(Clamp01(c[0]) * 255),
		G: uint8(Clamp01(c[1]) * 255),
		B: uint8(Clamp01(c[2]) * 255),
		A: uint8(Clamp01(c[3]) * 255),
	}
}

// Bake rasterizes prog over the local xy square [-extent, extent]², viewed
// face-on, into a w*h row-major buffer. dst is reused when large enough.
func Bake(prog Program, u SurfaceUniforms, w, h int, extent float32, dst []color.RGBA) []color.RGBA {
	if w <= 0 || h <= 0 {
		return dst[:0]
	}
	if cap(dst) < w*h {
		dst = make([]color.RGBA, w*h)
	}
	dst = dst[:w*h]

	f := Fragment{Normal: mgl32.Vec3{0, 0, 1}, View: mgl32.Vec3{0, 0, 1}}
	for py := 0; py < h; py++ {
		y := extent - (float32(py)+0.5)/float32(h)*2*extent
		for px := 0; px < w; px++ {
			x := (float32(px)+0.5)/float32(w)*2*extent - extent
			f.Pos = mgl32.Vec3{x, y, 0}
			dst[py*w+px] = ToRGBA(prog.Shade(f, u))
		}
	}
	return dst
}

func sin32(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cos32(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
