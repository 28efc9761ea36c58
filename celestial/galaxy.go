package celestial

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/particles"
	"github.com/pthm-cable/cosmos/scene"
)

// Galaxy is a barred spiral point cloud in a tilted, slowly turning group.
type Galaxy struct {
	graph  *scene.Graph
	cloud  particles.PointCloud
	points ecs.Entity
	speed  float64
}

// GalaxyParams converts the galaxy config section.
func GalaxyParams(env Env) particles.DistributionParams {
	gc := env.Cfg.Galaxy
	return particles.DistributionParams{
		Count:           gc.Count,
		CoreCount:       gc.CoreCount,
		Radius:          float32(gc.Radius),
		CoreRadius:      float32(gc.CoreRadius),
		Branches:        gc.Branches,
		Spin:            float32(gc.Spin),
		Randomness:      float32(gc.Randomness),
		RandomnessPower: float32(gc.RandomnessPower),
		InsideColor:     gc.InsideColor.Vec3(),
		OutsideColor:    gc.OutsideColor.Vec3(),
		BarRadius:       float32(gc.BarRadius),
		BarSpinFactor:   float32(gc.BarSpinFactor),
		CoreFlatten:     float32(gc.CoreFlatten),
		ColorJitter:     float32(gc.ColorJitter),
		CoreTint:        float32(gc.CoreTint),
	}
}

// NewGalaxy generates the galaxy cloud and builds its skeleton.
func NewGalaxy(env Env) *Galaxy {
	gc := env.Cfg.Galaxy
	gx := &Galaxy{
		graph: scene.NewGraph(),
		cloud: particles.Galaxy(GalaxyParams(env), env.Rng),
		speed: gc.RotationSpeed,
	}

	tilt := scene.At(mgl32.Vec3{})
	tilt.Rotation[0] = float32(gc.Tilt)
	group := gx.graph.AddGroup(tilt)

	gx.points = gx.graph.Add(scene.Under(group), scene.Drawable{
		Shape:     scene.ShapePoints,
		Opacity:   0.8,
		Blend:     scene.BlendAdditive,
		Points:    &gx.cloud,
		PointSize: float32(gc.PointSize),
	})
	return gx
}

// Kind implements Object.
func (g *Galaxy) Kind() Kind { return KindGalaxy }

// Graph implements Object.
func (g *Galaxy) Graph() *scene.Graph { return g.graph }

// Cloud returns the generated point cloud.
func (g *Galaxy) Cloud() *particles.PointCloud { return &g.cloud }

// Advance implements Object.
func (g *Galaxy) Advance(t float64) {
	if tr := g.graph.Transform(g.points); tr != nil {
		tr.Rotation[1] = float32(math.Mod(t*g.speed, 2*math.Pi))
	}
}

// Release implements Object.
func (g *Galaxy) Release() {
	g.graph.Release()
}
