package particles

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// DebrisParams configures an explosion debris cloud.
type DebrisParams struct {
	Count     int
	MinRadius float32
	MaxRadius float32
	MinSpeed  float32
	MaxSpeed  float32
	HueMin    float64 // HSL hue in [0, 1]
	HueMax    float64
	LightMin  float64
	LightMax  float64
}

// DefaultDebrisParams returns white/yellow/orange debris launched from a shell of radius 1-3.
func DefaultDebrisParams() DebrisParams {
	return DebrisParams{
		Count:     2000,
		MinRadius: 1,
		MaxRadius: 3,
		MinSpeed:  2,
		MaxSpeed:  6,
		HueMin:    0.05,
		HueMax:    0.15,
		LightMin:  0.5,
		LightMax:  1.0,
	}
}

// Debris is a point cloud whose positions move along fixed radial velocities.
type Debris struct {
	PointCloud
	Velocities []mgl32.Vec3
	spawn      []mgl32.Vec3
}

// NewDebris generates an isotropic debris cloud.
func NewDebris(p DebrisParams, rng *rand.Rand) *Debris {
	n := max(p.Count, 0)
	d := &Debris{
		PointCloud: NewPointCloud(n),
		Velocities: make([]mgl32.Vec3, n),
		spawn:      make([]mgl32.Vec3, n),
	}

	for i := 0; i < n; i++ {
		theta := float64(rng.Float32()) * 2 * math.Pi
		phi := math.Acos(float64(rng.Float32())*2 - 1)
		dir := mgl32.Vec3{
			float32(math.Sin(phi) * math.Cos(theta)),
			float32(math.Sin(phi) * math.Sin(theta)),
			float32(math.Cos(phi)),
		}

		r := p.MinRadius + rng.Float32()*(p.MaxRadius-p.MinRadius)
		speed := p.MinSpeed + rng.Float32()*(p.MaxSpeed-p.MinSpeed)

		d.Positions[i] = dir.Mul(r)
		d.spawn[i] = d.Positions[i]
		d.Velocities[i] = dir.Mul(speed)

		hue := p.HueMin + rng.Float64()*(p.HueMax-p.HueMin)
		light := p.LightMin + rng.Float64()*(p.LightMax-p.LightMin)
		c := colorful.Hsl(hue*360, 1.0, light)
		d.Colors[i] = mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
	}

	return d
}

// Step integrates positions in place: pos += vel * dt * factor.
func (d *Debris) Step(dt, factor float32) {
	k := dt * factor
	for i := range d.Positions {
		d.Positions[i] = d.Positions[i].Add(d.Velocities[i].Mul(k))
	}
}

// Reset moves every particle back to its spawn position.
func (d *Debris) Reset() {
	copy(d.Positions, d.spawn)
}

// Release drops the backing buffers.
func (d *Debris) Release() {
	d.PointCloud.Release()
	d.Velocities = nil
	d.spawn = nil
}
