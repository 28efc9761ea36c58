// Package renderer draws celestial scene graphs with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/camera"
	"github.com/pthm-cable/cosmos/scene"
)

// SurfaceRenderer draws tessellated shapes, evaluating surface programs per
// vertex on the CPU.
type SurfaceRenderer struct {
	meshes *MeshCache
	lit    []Lit
}

// NewSurfaceRenderer creates a new surface renderer.
func NewSurfaceRenderer() *SurfaceRenderer {
	return &SurfaceRenderer{meshes: NewMeshCache()}
}

// Draw renders every visible non-point drawable in g. Must be called
// between rl.BeginMode3D and rl.EndMode3D.
func (r *SurfaceRenderer) Draw(g *scene.Graph, pose camera.Pose) {
	rl.DisableBackfaceCulling()
	defer rl.EnableBackfaceCulling()

	g.Each(func(_ ecs.Entity, world mgl32.Mat4, d *scene.Drawable) {
		if d.Shape == scene.ShapePoints || d.Hidden || d.Opacity <= 0 {
			return
		}

		mesh := r.meshes.Get(d.Shape, d.Size)
		r.lit = ShadeMesh(mesh, world, pose.Position, d, r.lit)

		beginBlend(d.Blend)
		idx := mesh.Indices
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := r.lit[idx[i]], r.lit[idx[i+1]], r.lit[idx[i+2]]
			col := Average(a.Color, b.Color, c.Color)
			if col.A == 0 {
				continue
			}
			rl.DrawTriangle3D(vec3(a.Pos), vec3(b.Pos), vec3(c.Pos), rl.Color(col))
		}
		rl.EndBlendMode()
	})
}

// Reset drops cached meshes, e.g. after the selected object changes.
func (r *SurfaceRenderer) Reset() {
	r.meshes.Clear()
}

func beginBlend(b scene.Blend) {
	if b == scene.BlendAdditive {
		rl.BeginBlendMode(rl.BlendAdditive)
		return
	}
	rl.BeginBlendMode(rl.BlendAlpha)
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// Camera3D converts the orbit camera to the raylib camera used for 3D mode.
func Camera3D(c *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Position()),
		Target:     vec3(c.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
}
