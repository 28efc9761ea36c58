package lensing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Starfield is a procedural sky: the sphere of directions is split into
// latitude/longitude cells and a hashed subset of cells holds one star.
type Starfield struct {
	Density    float64 // Cells around the equator
	Threshold  float64 // Fraction of cells left empty, in [0, 1)
	Brightness float64
	Seed       uint64
}

// NewStarfield returns a starfield with the given cell density and threshold.
func NewStarfield(density, threshold, brightness float64, seed uint64) *Starfield {
	return &Starfield{Density: density, Threshold: threshold, Brightness: brightness, Seed: seed}
}

// Sample implements Background.
func (s *Starfield) Sample(dir r3.Vec) mgl32.Vec3 {
	n := r3.Norm(dir)
	if n == 0 || s.Density <= 0 {
		return mgl32.Vec3{}
	}
	d := r3.Scale(1/n, dir)

	// u in [0, 1) around the equator, v in [0, 1] pole to pole.
	u := (math.Atan2(d.Z, d.X) + math.Pi) / (2 * math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, d.Y))) / math.Pi

	cu, cv := u*s.Density, v*s.Density/2
	iu, iv := math.Floor(cu), math.Floor(cv)
	fu, fv := cu-iu-0.5, cv-iv-0.5

	h := s.hash(int64(iu), int64(iv))
	if h <= s.Threshold {
		return mgl32.Vec3{}
	}

	// Star sits at the cell center; brighter cells also read larger.
	strength := (h - s.Threshold) / math.Max(1-s.Threshold, 1e-9)
	core := smoothstep(0.5, 0.1, math.Sqrt(fu*fu+fv*fv))
	b := float32(core * (0.4 + 0.6*strength) * s.Brightness)

	// Slight color temperature variation per star.
	tint := s.hash(int64(iv), int64(iu))
	return mgl32.Vec3{b, b * float32(0.85+0.15*tint), b * float32(0.7+0.3*tint)}
}

// hash maps a cell to [0, 1).
func (s *Starfield) hash(x, y int64) float64 {
	h := s.Seed ^ uint64(x)*0x9e3779b97f4a7c15 ^ uint64(y)*0xc2b2ae3d27d4eb4f
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return float64(h>>11) / float64(1<<53)
}
