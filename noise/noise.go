// Package noise provides deterministic 2D gradient noise kernels for procedural surfaces.
package noise

import (
	"fmt"

	"github.com/ojrac/opensimplex-go"
)

// Kernel evaluates coherent noise in approximately [-1, 1].
// Implementations hold no per-call state and do not allocate in Eval2.
type Kernel interface {
	Eval2(x, y float64) float64
}

// Kind names a kernel implementation.
const (
	KindSimplex = "simplex"
	KindPerlin  = "perlin"
)

// New returns the kernel named by kind.
func New(kind string, seed int64) (Kernel, error) {
	switch kind {
	case KindSimplex, "":
		return NewSimplex(seed), nil
	case KindPerlin:
		return NewPerlin(seed), nil
	}
	return nil, fmt.Errorf("unknown noise kernel %q", kind)
}

// Simplex is OpenSimplex gradient noise.
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex creates a seeded OpenSimplex kernel.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{n: opensimplex.New(seed)}
}

// Eval2 returns a noise value for 2D coordinates.
func (s *Simplex) Eval2(x, y float64) float64 {
	return s.n.Eval2(x, y)
}

// FBM sums octaves of k, each at lacunarity times the previous frequency and
// gain times the previous amplitude, normalized back to the kernel's range.
func FBM(k Kernel, x, y float64, octaves int, lacunarity, gain float64) float64 {
	var total, maxValue float64
	freq, amp := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		total += k.Eval2(x*freq, y*freq) * amp
		maxValue += amp
		amp *= gain
		freq *= lacunarity
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}
