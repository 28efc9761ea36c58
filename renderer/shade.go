package renderer

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/cosmos/scene"
	"github.com/pthm-cable/cosmos/shading"
)

// Lit is a shaded vertex in world space.
type Lit struct {
	Pos   mgl32.Vec3
	Color color.RGBA
}

// ShadeMesh deforms, transforms and colors every vertex of m for drawable d
// seen from eye. Programs are evaluated in the shape's local space; drawables
// without one use their flat color. Opacity scales alpha in both cases.
func ShadeMesh(m *Mesh, world mgl32.Mat4, eye mgl32.Vec3, d *scene.Drawable, dst []Lit) []Lit {
	dst = dst[:0]

	eyeLocal := eye
	if world.Det() != 0 {
		eyeLocal = world.Inv().Mul4x1(eye.Vec4(1)).Vec3()
	}

	flat := d.Color.Vec4(1)
	for _, v := range m.Vertices {
		local := v.Pos
		if d.Deform != nil {
			local = d.Deform.Displace(local, d.Uniforms.Time)
		}

		c := flat
		if d.Program != nil {
			view := eyeLocal.Sub(local)
			if l := view.Len(); l > 0 {
				view = view.Mul(1 / l)
			} else {
				view = v.Normal
			}
			c = d.Program.Shade(shading.Fragment{Pos: local, Normal: v.Normal, View: view}, d.Uniforms)
		}
		c[3] *= d.Opacity

		dst = append(dst, Lit{
			Pos:   world.Mul4x1(local.Vec4(1)).Vec3(),
			Color: shading.ToRGBA(c),
		})
	}
	return dst
}

// Average returns the channel-wise mean of three colors.
func Average(a, b, c color.RGBA) color.RGBA {
	avg := func(x, y, z uint8) uint8 {
		return uint8((uint16(x) + uint16(y) + uint16(z)) / 3)
	}
	return color.RGBA{
		R: avg(a.R, b.R, c.R),
		G: avg(a.G, b.G, c.G),
		B: avg(a.B, b.B, c.B),
		A: avg(a.A, b.A, c.A),
	}
}

// Billboard returns the corners of a camera-facing square centered on p,
// counter-clockwise from bottom-left.
func Billboard(p, right, up mgl32.Vec3, size float32) [4]mgl32.Vec3 {
	r := right.Mul(size / 2)
	u := up.Mul(size / 2)
	return [4]mgl32.Vec3{
		p.Sub(r).Sub(u),
		p.Add(r).Sub(u),
		p.Add(r).Add(u),
		p.Sub(r).Add(u),
	}
}

// PointColor converts a particle color and node opacity to RGBA.
func PointColor(c mgl32.Vec3, opacity float32) color.RGBA {
	return shading.ToRGBA(c.Vec4(opacity))
}
