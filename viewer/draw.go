package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cosmos/celestial"
	"github.com/pthm-cable/cosmos/renderer"
	"github.com/pthm-cable/cosmos/telemetry"
)

// Button bar layout.
const (
	menuHeight  = 44
	buttonW     = 110
	buttonH     = 28
	buttonGap   = 8
	menuPadding = 8
)

// Draw renders the current frame and finishes its timing sample.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if v.lensActive {
		v.lens.Draw()
	}

	rl.BeginMode3D(renderer.Camera3D(v.cam))
	if obj := v.composer.Current(); obj != nil {
		v.perf.StartPhase(telemetry.PhaseSurfaces)
		v.surfaces.Draw(obj.Graph(), v.pose)

		v.perf.StartPhase(telemetry.PhasePoints)
		v.points.Draw(obj.Graph(), v.pose)
	} else {
		// Stand-in ground plane for the terrestrial vignette.
		rl.DrawGrid(20, 1)
	}
	rl.EndMode3D()

	v.perf.StartPhase(telemetry.PhaseDraw)
	v.drawMenu()
	v.drawHUD()

	rl.EndDrawing()

	v.perf.EndFrame()
	v.perf.RecordPresent()
	v.flushTelemetry()
}

// drawMenu draws one button per selection along the top edge.
func (v *Viewer) drawMenu() {
	current := v.composer.Selection()
	x := float32(menuPadding)
	for i, s := range celestial.Selections {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == current {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: x, Y: menuPadding, Width: buttonW, Height: buttonH}, label) {
			v.Select(s)
		}
		x += buttonW + buttonGap
	}
}

// drawHUD draws status text in the bottom-left corner.
func (v *Viewer) drawHUD() {
	y := int32(v.screenH) - 70

	status := fmt.Sprintf("%s  t=%.1fs  FPS %d", v.composer.Selection(), v.elapsed, rl.GetFPS())
	if v.paused {
		status += "  [PAUSED]"
	}
	rl.DrawText(status, 10, y, 20, rl.White)

	if obj := v.composer.Current(); obj != nil {
		g := obj.Graph()
		info := fmt.Sprintf("nodes %d  particles %d", g.Len(), g.PointCount())
		rl.DrawText(info, 10, y+24, 16, rl.LightGray)
	}

	rl.DrawText("1-6: Object | Drag/Arrows: Orbit | Wheel: Zoom | Home: Reset | SPACE: Pause", 10, y+46, 14, rl.Gray)
}
