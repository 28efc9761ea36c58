package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cosmos/celestial"
)

// selectionKeys maps number keys to selections in menu order.
var selectionKeys = []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix}

// Update handles input and advances by the real frame time.
func (v *Viewer) Update() error {
	v.handleInput()

	v.perf.StartFrame()
	return v.step(float64(rl.GetFrameTime()))
}

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	for i, key := range selectionKeys {
		if i < len(celestial.Selections) && rl.IsKeyPressed(key) {
			v.Select(celestial.Selections[i])
		}
	}

	v.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h

	v.cam.Resize(w, h)
	if v.lens != nil {
		v.lens.Resize(int32(w), int32(h))
	}
}

// handleCameraInput processes orbit and zoom controls.
func (v *Viewer) handleCameraInput() {
	// Drags that start on the button bar belong to the buttons.
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && mouse.Y > menuHeight {
		d := rl.GetMouseDelta()
		v.cam.Orbit(d.X, d.Y)
	}

	const keyOrbit = 4
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Orbit(0, -keyOrbit)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}
