package particles

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// DistributionParams configures a spiral galaxy distribution.
type DistributionParams struct {
	Count           int // Spiral-arm particles
	CoreCount       int // Dense core particles
	Radius          float32
	CoreRadius      float32
	Branches        int
	Spin            float32
	Randomness      float32
	RandomnessPower float32
	InsideColor     mgl32.Vec3
	OutsideColor    mgl32.Vec3

	BarRadius     float32 // Spin is attenuated inside this radius
	BarSpinFactor float32
	CoreFlatten   float32 // Y scale of the core ellipsoid
	ColorJitter   float32 // Full width of red/blue jitter on arm points
	CoreTint      float32 // Max per-channel tint added to core points
}

// DefaultDistributionParams returns the classic two-armed galaxy.
func DefaultDistributionParams() DistributionParams {
	return DistributionParams{
		Count:           50000,
		CoreCount:       20000,
		Radius:          10,
		CoreRadius:      2.5,
		Branches:        2,
		Spin:            1,
		Randomness:      0.3,
		RandomnessPower: 3,
		InsideColor:     mgl32.Vec3{1, 0.667, 0.2},
		OutsideColor:    mgl32.Vec3{0.2, 0.4, 1},
		BarRadius:       2,
		BarSpinFactor:   0.2,
		CoreFlatten:     0.5,
		ColorJitter:     0.1,
		CoreTint:        0.2,
	}
}

// Galaxy generates spiral-arm particles in [0, Count) followed by core
// particles in [Count, Count+CoreCount). All draws come from rng in order.
func Galaxy(p DistributionParams, rng *rand.Rand) PointCloud {
	arms := max(p.Count, 0)
	core := max(p.CoreCount, 0)
	cloud := NewPointCloud(arms + core)

	branches := p.Branches
	if branches < 1 {
		branches = 1
	}

	for i := 0; i < arms; i++ {
		radius := rng.Float32() * p.Radius

		spinAngle := radius * p.Spin
		if radius < p.BarRadius {
			spinAngle *= p.BarSpinFactor
		}

		branchAngle := float32(i%branches) / float32(branches) * 2 * math.Pi

		spread := p.Randomness * radius
		rx := biasedOffset(rng, p.RandomnessPower) * spread
		ry := biasedOffset(rng, p.RandomnessPower) * spread * 0.5
		rz := biasedOffset(rng, p.RandomnessPower) * spread

		// Keep planar jitter inside a disc so no arm point leaves radius*(1+randomness).
		if planar := float32(math.Sqrt(float64(rx*rx + rz*rz))); planar > spread && planar > 0 {
			s := spread / planar
			rx *= s
			rz *= s
		}

		angle := float64(branchAngle + spinAngle)
		cloud.Positions[i] = mgl32.Vec3{
			float32(math.Cos(angle))*radius + rx,
			ry,
			float32(math.Sin(angle))*radius + rz,
		}

		mix := float32(0)
		if p.Radius > 0 {
			mix = radius / p.Radius
		}
		c := lerpVec3(p.InsideColor, p.OutsideColor, mix)
		c[0] += (rng.Float32() - 0.5) * p.ColorJitter
		c[2] += (rng.Float32() - 0.5) * p.ColorJitter
		cloud.Colors[i] = c
	}

	for i := arms; i < arms+core; i++ {
		u := rng.Float32()
		r := u * u * p.CoreRadius
		theta := float64(rng.Float32()) * 2 * math.Pi
		phi := (float64(rng.Float32()) - 0.5) * math.Pi * 0.5

		cosPhi := float32(math.Cos(phi))
		cloud.Positions[i] = mgl32.Vec3{
			r * float32(math.Cos(theta)) * cosPhi,
			r * float32(math.Sin(phi)) * p.CoreFlatten,
			r * float32(math.Sin(theta)) * cosPhi,
		}

		cloud.Colors[i] = mgl32.Vec3{
			p.InsideColor[0] + rng.Float32()*p.CoreTint,
			p.InsideColor[1] + rng.Float32()*p.CoreTint,
			p.InsideColor[2] + rng.Float32()*p.CoreTint,
		}
	}

	return cloud
}

// biasedOffset returns sign * U^k: mostly near zero, occasionally near ±1.
func biasedOffset(rng *rand.Rand, k float32) float32 {
	v := float32(math.Pow(float64(rng.Float32()), float64(k)))
	if rng.Float32() < 0.5 {
		return -v
	}
	return v
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
