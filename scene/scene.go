// Package scene stores a celestial object's renderable skeleton as ECS
// entities: every node has a Transform, drawable nodes also a Drawable.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/particles"
	"github.com/pthm-cable/cosmos/shading"
)

// Shape selects the primitive a Drawable tessellates to.
type Shape uint8

const (
	ShapeSphere   Shape = iota // Size[0] radius
	ShapeTorus                 // Size[0] major radius, Size[1] tube radius; lies in local XY
	ShapeRing                  // Size[0] inner, Size[1] outer radius; lies in local XY
	ShapeCylinder              // Size[0] top, Size[1] bottom radius, Size[2] length along Y
	ShapePoints                // Points cloud
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeTorus:
		return "torus"
	case ShapeRing:
		return "ring"
	case ShapeCylinder:
		return "cylinder"
	case ShapePoints:
		return "points"
	}
	return "unknown"
}

// Blend is how a drawable composites over what is behind it.
type Blend uint8

const (
	BlendAlpha Blend = iota
	BlendAdditive
)

// Transform places a node relative to its parent.
type Transform struct {
	Position  mgl32.Vec3
	Rotation  mgl32.Vec3 // Euler angles in radians, applied X then Y then Z
	Scale     float32
	Parent    ecs.Entity
	HasParent bool
}

// At returns an unrotated, unit-scale transform at pos.
func At(pos mgl32.Vec3) Transform {
	return Transform{Position: pos, Scale: 1}
}

// Under returns an identity transform parented to p.
func Under(p ecs.Entity) Transform {
	return Transform{Scale: 1, Parent: p, HasParent: true}
}

// Local returns the node's matrix relative to its parent.
func (t *Transform) Local() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	return m.Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Drawable is the renderable part of a node. Program is nil for flat-colored
// shapes; Points is set only for ShapePoints.
type Drawable struct {
	Shape     Shape
	Size      mgl32.Vec3
	Color     mgl32.Vec3
	Opacity   float32
	Blend     Blend
	Hidden    bool
	Program   shading.Program
	Deform    shading.Deformer
	Uniforms  shading.SurfaceUniforms
	Points    *particles.PointCloud
	PointSize float32
}

// maxDepth bounds parent chains so a malformed graph cannot loop forever.
const maxDepth = 32

// Graph is one object's scene skeleton.
type Graph struct {
	world *ecs.World

	nodeMapper  *ecs.Map2[Transform, Drawable]
	groupMapper *ecs.Map1[Transform]
	nodeFilter  *ecs.Filter2[Transform, Drawable]
	allFilter   *ecs.Filter1[Transform]

	transMap *ecs.Map[Transform]
	drawMap  *ecs.Map[Drawable]

	// Insertion order; renderers draw in this order so translucent shells
	// added last composite over opaque cores.
	order []ecs.Entity
}

// NewGraph creates an empty graph backed by its own ECS world.
func NewGraph() *Graph {
	world := ecs.NewWorld()
	return &Graph{
		world:       world,
		nodeMapper:  ecs.NewMap2[Transform, Drawable](world),
		groupMapper: ecs.NewMap1[Transform](world),
		nodeFilter:  ecs.NewFilter2[Transform, Drawable](world),
		allFilter:   ecs.NewFilter1[Transform](world),
		transMap:    ecs.NewMap[Transform](world),
		drawMap:     ecs.NewMap[Drawable](world),
	}
}

// AddGroup adds a transform-only node used to move children together.
func (g *Graph) AddGroup(t Transform) ecs.Entity {
	return g.groupMapper.NewEntity(&t)
}

// Add adds a drawable node.
func (g *Graph) Add(t Transform, d Drawable) ecs.Entity {
	e := g.nodeMapper.NewEntity(&t, &d)
	g.order = append(g.order, e)
	return e
}

// Transform returns the node's transform for in-place mutation, or nil.
func (g *Graph) Transform(e ecs.Entity) *Transform {
	if !g.world.Alive(e) {
		return nil
	}
	return g.transMap.Get(e)
}

// Drawable returns the node's drawable for in-place mutation, or nil for
// groups and released nodes.
func (g *Graph) Drawable(e ecs.Entity) *Drawable {
	if !g.world.Alive(e) || !g.drawMap.Has(e) {
		return nil
	}
	return g.drawMap.Get(e)
}

// WorldMatrix composes the node's transform with all of its ancestors.
func (g *Graph) WorldMatrix(e ecs.Entity) mgl32.Mat4 {
	m := mgl32.Ident4()
	for depth := 0; depth < maxDepth; depth++ {
		t := g.Transform(e)
		if t == nil {
			break
		}
		m = t.Local().Mul4(m)
		if !t.HasParent {
			break
		}
		e = t.Parent
	}
	return m
}

// Each visits drawable nodes in insertion order.
func (g *Graph) Each(fn func(e ecs.Entity, world mgl32.Mat4, d *Drawable)) {
	for _, e := range g.order {
		d := g.Drawable(e)
		if d == nil {
			continue
		}
		fn(e, g.WorldMatrix(e), d)
	}
}

// Len returns the number of drawable nodes.
func (g *Graph) Len() int {
	n := 0
	query := g.nodeFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// PointCount returns the total number of points across point-cloud nodes.
func (g *Graph) PointCount() int {
	n := 0
	query := g.nodeFilter.Query()
	for query.Next() {
		_, d := query.Get()
		if d.Points != nil {
			n += d.Points.Len()
		}
	}
	return n
}

// Release removes every node. Point clouds referenced by drawables are
// released as well.
func (g *Graph) Release() {
	// Collect first; the world cannot be modified during a query.
	var toRemove []ecs.Entity
	query := g.allFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}

	for _, e := range toRemove {
		if d := g.Drawable(e); d != nil && d.Points != nil {
			d.Points.Release()
		}
		g.world.RemoveEntity(e)
	}
	g.order = nil
}
