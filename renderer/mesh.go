package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/cosmos/scene"
)

// Tessellation density.
const (
	sphereRings    = 24
	sphereSegments = 48
	torusSegments  = 96
	torusSides     = 12
	ringSegments   = 128
	ringBands      = 12
	cylSegments    = 32
	cylBands       = 48
)

// Vertex is a mesh vertex in the shape's local space.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []int32
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Tessellate builds the mesh for a drawable shape. Points and unknown shapes
// produce an empty mesh.
func Tessellate(shape scene.Shape, size mgl32.Vec3) *Mesh {
	switch shape {
	case scene.ShapeSphere:
		return sphereMesh(size[0])
	case scene.ShapeTorus:
		return torusMesh(size[0], size[1])
	case scene.ShapeRing:
		return ringMesh(size[0], size[1])
	case scene.ShapeCylinder:
		return cylinderMesh(size[0], size[1], size[2])
	}
	return &Mesh{}
}

// grid fills a (cols+1) x (rows+1) vertex grid and stitches it into quads.
func grid(cols, rows int, at func(u, v float64) Vertex) *Mesh {
	m := &Mesh{Vertices: make([]Vertex, 0, (cols+1)*(rows+1))}
	for j := 0; j <= rows; j++ {
		v := float64(j) / float64(rows)
		for i := 0; i <= cols; i++ {
			u := float64(i) / float64(cols)
			m.Vertices = append(m.Vertices, at(u, v))
		}
	}

	m.Indices = make([]int32, 0, cols*rows*6)
	stride := int32(cols + 1)
	for j := int32(0); j < int32(rows); j++ {
		for i := int32(0); i < int32(cols); i++ {
			a := j*stride + i
			b := a + 1
			c := a + stride
			d := c + 1
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	return m
}

func sphereMesh(radius float32) *Mesh {
	return grid(sphereSegments, sphereRings, func(u, v float64) Vertex {
		theta := u * 2 * math.Pi
		phi := v * math.Pi
		n := mgl32.Vec3{
			float32(math.Sin(phi) * math.Cos(theta)),
			float32(math.Cos(phi)),
			float32(math.Sin(phi) * math.Sin(theta)),
		}
		return Vertex{Pos: n.Mul(radius), Normal: n}
	})
}

// torusMesh lies in the local XY plane around the Z axis.
func torusMesh(major, tube float32) *Mesh {
	return grid(torusSegments, torusSides, func(u, v float64) Vertex {
		a := u * 2 * math.Pi
		b := v * 2 * math.Pi
		ca, sa := float32(math.Cos(a)), float32(math.Sin(a))
		cb, sb := float32(math.Cos(b)), float32(math.Sin(b))
		r := major + tube*cb
		return Vertex{
			Pos:    mgl32.Vec3{r * ca, r * sa, tube * sb},
			Normal: mgl32.Vec3{cb * ca, cb * sa, sb},
		}
	})
}

// ringMesh is a flat annulus in the local XY plane facing +Z.
func ringMesh(inner, outer float32) *Mesh {
	return grid(ringSegments, ringBands, func(u, v float64) Vertex {
		a := u * 2 * math.Pi
		r := inner + (outer-inner)*float32(v)
		return Vertex{
			Pos:    mgl32.Vec3{r * float32(math.Cos(a)), r * float32(math.Sin(a)), 0},
			Normal: mgl32.Vec3{0, 0, 1},
		}
	})
}

// cylinderMesh is an open tapered tube along Y centered at the origin, with
// the top radius at +length/2.
func cylinderMesh(top, bottom, length float32) *Mesh {
	slope := float32(0)
	if length > 0 {
		slope = (bottom - top) / length
	}
	return grid(cylSegments, cylBands, func(u, v float64) Vertex {
		a := u * 2 * math.Pi
		ca, sa := float32(math.Cos(a)), float32(math.Sin(a))
		t := float32(v)
		r := top + (bottom-top)*t
		y := length/2 - length*t
		n := mgl32.Vec3{ca, slope, sa}
		return Vertex{
			Pos:    mgl32.Vec3{r * ca, y, r * sa},
			Normal: n.Normalize(),
		}
	})
}

type meshKey struct {
	shape scene.Shape
	size  mgl32.Vec3
}

// MeshCache tessellates each distinct shape and size once.
type MeshCache struct {
	meshes map[meshKey]*Mesh
}

// NewMeshCache creates an empty cache.
func NewMeshCache() *MeshCache {
	return &MeshCache{meshes: make(map[meshKey]*Mesh)}
}

// Get returns the cached mesh, tessellating on first use.
func (c *MeshCache) Get(shape scene.Shape, size mgl32.Vec3) *Mesh {
	k := meshKey{shape, size}
	if m, ok := c.meshes[k]; ok {
		return m
	}
	m := Tessellate(shape, size)
	c.meshes[k] = m
	return m
}

// Len returns the number of cached meshes.
func (c *MeshCache) Len() int {
	return len(c.meshes)
}

// Clear drops every cached mesh.
func (c *MeshCache) Clear() {
	clear(c.meshes)
}
