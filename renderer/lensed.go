package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LensRenderer stretches the CPU-lensed background over the screen.
type LensRenderer struct {
	tex        rl.Texture2D
	texW, texH int

	screenW, screenH float32
	initialized      bool
}

// NewLensRenderer creates a new lens renderer.
func NewLensRenderer(screenW, screenH int32) *LensRenderer {
	return &LensRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init allocates the background texture (must be called after the raylib
// window is created).
func (l *LensRenderer) Init(w, h int) {
	if l.initialized {
		return
	}
	l.texW = w
	l.texH = h

	img := rl.GenImageColor(w, h, rl.Black)
	l.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(l.tex, rl.FilterBilinear)

	l.initialized = true
}

// Size returns the texture resolution.
func (l *LensRenderer) Size() (w, h int) {
	return l.texW, l.texH
}

// Update uploads a frame of w*h pixels.
func (l *LensRenderer) Update(pixels []color.RGBA) {
	if !l.initialized || len(pixels) != l.texW*l.texH {
		return
	}
	rl.UpdateTexture(l.tex, pixels)
}

// Draw renders the background texture across the whole screen.
func (l *LensRenderer) Draw() {
	if !l.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(l.texW), Height: float32(l.texH)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: l.screenW, Height: l.screenH}
	rl.DrawTexturePro(l.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Resize updates the screen size the texture is stretched to.
func (l *LensRenderer) Resize(screenW, screenH int32) {
	l.screenW = float32(screenW)
	l.screenH = float32(screenH)
}

// Unload frees resources.
func (l *LensRenderer) Unload() {
	if l.initialized {
		rl.UnloadTexture(l.tex)
		l.initialized = false
	}
}
