package noise

import (
	"math"
	"math/rand"
)

// Perlin is improved Perlin gradient noise over a seeded permutation table.
type Perlin struct {
	perm [512]int
}

// NewPerlin creates a new Perlin noise generator.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so corner hashes never need wrapping
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Eval2 returns a noise value for 2D coordinates, taken on the z=0 slice of
// the 3D lattice so only the four xy corners contribute.
func (p *Perlin) Eval2(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	X := int(fx) & 255
	Y := int(fy) & 255

	x -= fx
	y -= fy

	u := fade(x)
	v := fade(y)

	A := p.perm[X] + Y
	B := p.perm[X+1] + Y

	return lerp(v,
		lerp(u, grad(p.perm[p.perm[A]], x, y), grad(p.perm[p.perm[B]], x-1, y)),
		lerp(u, grad(p.perm[p.perm[A+1]], x, y-1), grad(p.perm[p.perm[B+1]], x-1, y-1)))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad is the 3D improved-noise gradient set with z fixed at 0.
func grad(hash int, x, y float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	var v float64
	if h < 4 {
		v = y
	} else if h == 12 || h == 14 {
		v = x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
