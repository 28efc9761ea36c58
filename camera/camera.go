// Package camera provides an orbit camera that frames the celestial scene.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point at a given distance.
// Yaw rotates about world Y, pitch tilts toward the poles.
type Camera struct {
	// Target is the point the camera looks at
	Target mgl32.Vec3

	// Spherical coordinates around the target (radians)
	Yaw, Pitch float32

	// Distance from target
	Distance float32

	// Vertical field of view in degrees
	FOV float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Distance constraints
	MinDistance, MaxDistance float32

	Near, Far float32

	initialDistance float32
}

// Pose is a snapshot of the camera for one frame.
type Pose struct {
	Position   mgl32.Vec3
	View       mgl32.Mat4 // World to view
	Projection mgl32.Mat4
	Inverse    mgl32.Mat4 // View to world

	fovY   float32
	aspect float32
}

// New creates a camera looking at the origin from the given distance.
func New(viewportW, viewportH, fov, distance float32) *Camera {
	return &Camera{
		Pitch:           0.25,
		Distance:        distance,
		FOV:             fov,
		ViewportW:       viewportW,
		ViewportH:       viewportH,
		MinDistance:     2,
		MaxDistance:     150,
		Near:            0.05,
		Far:             500,
		initialDistance: distance,
	}
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		c.Distance * cp * float32(math.Sin(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(offset)
}

// Pose computes the view and projection for the current state.
func (c *Camera) Pose() Pose {
	eye := c.Position()
	view := mgl32.LookAtV(eye, c.Target, mgl32.Vec3{0, 1, 0})
	aspect := float32(1)
	if c.ViewportH > 0 {
		aspect = c.ViewportW / c.ViewportH
	}
	return Pose{
		Position:   eye,
		View:       view,
		Projection: mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far),
		Inverse:    view.Inv(),
		fovY:       mgl32.DegToRad(c.FOV),
		aspect:     aspect,
	}
}

// Ray returns the world-space direction through normalized screen
// coordinates u, v in [0, 1], with v growing downward.
func (p Pose) Ray(u, v float32) mgl32.Vec3 {
	tanHalf := float32(math.Tan(float64(p.fovY) / 2))
	x := (2*u - 1) * tanHalf * p.aspect
	y := (1 - 2*v) * tanHalf
	dir := p.Inverse.Mul4x1(mgl32.Vec4{x, y, -1, 0}).Vec3()
	return dir.Normalize()
}

// Project converts a world point to screen pixels. ok is false when the
// point lies behind the camera.
func (p Pose) Project(world mgl32.Vec3, viewportW, viewportH float32) (sx, sy float32, ok bool) {
	clip := p.Projection.Mul4(p.View).Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	sx = (ndc[0]*0.5 + 0.5) * viewportW
	sy = (0.5 - ndc[1]*0.5) * viewportH
	return sx, sy, true
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Orbit rotates the camera by the given delta in screen pixels.
func (c *Camera) Orbit(dx, dy float32) {
	const sensitivity = 0.005
	c.Yaw = float32(math.Mod(float64(c.Yaw-dx*sensitivity), 2*math.Pi))
	c.Pitch = clamp(c.Pitch+dy*sensitivity, -1.5, 1.5)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the current distance by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Yaw = 0
	c.Pitch = 0.25
	c.Distance = c.initialDistance
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
