// Package particles generates point-cloud distributions for galaxies and explosion debris.
package particles

import "github.com/go-gl/mathgl/mgl32"

// PointCloud is an ordered set of colored points. Positions and Colors always
// have the same length, fixed at creation.
type PointCloud struct {
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec3
}

// NewPointCloud allocates a cloud of n points. Negative n yields an empty cloud.
func NewPointCloud(n int) PointCloud {
	if n < 0 {
		n = 0
	}
	return PointCloud{
		Positions: make([]mgl32.Vec3, n),
		Colors:    make([]mgl32.Vec3, n),
	}
}

// Len returns the number of points.
func (c *PointCloud) Len() int {
	return len(c.Positions)
}

// FlattenPositions appends interleaved xyz positions to dst for GPU upload.
func (c *PointCloud) FlattenPositions(dst []float32) []float32 {
	return flatten(dst, c.Positions)
}

// FlattenColors appends interleaved rgb colors to dst for GPU upload.
func (c *PointCloud) FlattenColors(dst []float32) []float32 {
	return flatten(dst, c.Colors)
}

// Release drops the backing buffers.
func (c *PointCloud) Release() {
	c.Positions = nil
	c.Colors = nil
}

func flatten(dst []float32, vs []mgl32.Vec3) []float32 {
	dst = dst[:0]
	if cap(dst) < len(vs)*3 {
		dst = make([]float32, 0, len(vs)*3)
	}
	for _, v := range vs {
		dst = append(dst, v[0], v[1], v[2])
	}
	return dst
}
