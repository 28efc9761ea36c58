package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/camera"
	"github.com/pthm-cable/cosmos/scene"
)

// PointRenderer renders particle clouds as camera-facing squares.
type PointRenderer struct{}

// NewPointRenderer creates a new point renderer.
func NewPointRenderer() *PointRenderer {
	return &PointRenderer{}
}

// Draw renders every visible point-cloud drawable in g. Must be called
// between rl.BeginMode3D and rl.EndMode3D.
func (r *PointRenderer) Draw(g *scene.Graph, pose camera.Pose) {
	right := pose.Inverse.Col(0).Vec3()
	up := pose.Inverse.Col(1).Vec3()

	g.Each(func(_ ecs.Entity, world mgl32.Mat4, d *scene.Drawable) {
		if d.Shape != scene.ShapePoints || d.Points == nil || d.Hidden || d.Opacity <= 0 {
			return
		}

		beginBlend(d.Blend)
		cloud := d.Points
		for i, p := range cloud.Positions {
			col := rl.Color(PointColor(cloud.Colors[i], d.Opacity))
			if col.A == 0 {
				continue
			}
			wp := world.Mul4x1(p.Vec4(1)).Vec3()
			if d.PointSize <= 0 {
				rl.DrawPoint3D(vec3(wp), col)
				continue
			}
			q := Billboard(wp, right, up, d.PointSize)
			rl.DrawTriangle3D(vec3(q[0]), vec3(q[1]), vec3(q[2]), col)
			rl.DrawTriangle3D(vec3(q[0]), vec3(q[2]), vec3(q[3]), col)
		}
		rl.EndBlendMode()
	})
}
