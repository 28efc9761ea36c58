package celestial

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/cosmos/camera"
	"github.com/pthm-cable/cosmos/config"
	"github.com/pthm-cable/cosmos/lensing"
)

// LensedBackground is the sky behind a black hole, bent by its lens.
// The host renders it at low resolution and stretches it behind the scene.
type LensedBackground struct {
	Lens   lensing.LensParams
	Sky    lensing.Background
	Radius float64 // Enclosing sphere radius; rays are cast from the camera

	renderer *lensing.Renderer
	buf      []color.RGBA
}

// LensFromConfig builds lens parameters centered at position.
func LensFromConfig(lc config.LensConfig, position r3.Vec) lensing.LensParams {
	l := lensing.NewLensParams(position, lc.Rs)
	l.Epsilon = lc.Epsilon
	l.MaxDeflection = lc.MaxDeflection
	l.DeflectionGain = lc.DeflectionGain
	l.RingWidth = lc.RingWidth
	l.RingGain = lc.RingGain
	l.RingColor = lc.RingColor.Vec3()
	l.GlowColor = lc.GlowColor.Vec3()
	l.GlowStrength = lc.GlowStrength
	return l
}

// NewLensedBackground creates a lensed starfield centered at position.
func NewLensedBackground(cfg *config.Config, position r3.Vec) *LensedBackground {
	sf := cfg.Starfield
	return &LensedBackground{
		Lens:     LensFromConfig(cfg.Lens, position),
		Sky:      lensing.NewStarfield(sf.Density, sf.Threshold, sf.Brightness, uint64(cfg.Noise.Seed)),
		Radius:   cfg.Lens.BackgroundRadius,
		renderer: lensing.NewRenderer(),
	}
}

// Update records the camera pose for this frame.
func (b *LensedBackground) Update(pose camera.Pose) {
	b.Lens = b.Lens.WithPose(pose)
}

// Sample returns the lensed color along a world direction from the camera.
func (b *LensedBackground) Sample(dir r3.Vec) mgl32.Vec4 {
	return lensing.Sample(b.Lens.Camera, dir, b.Lens, b.Sky)
}

// Frame renders the background for pose into an internal buffer that stays
// valid until the next call.
func (b *LensedBackground) Frame(pose camera.Pose, w, h int) []color.RGBA {
	b.Update(pose)
	b.buf = b.renderer.Render(pose, b.Lens, b.Sky, w, h, b.buf)
	return b.buf
}

// Start launches the row workers used by Frame.
func (b *LensedBackground) Start() {
	b.renderer.Start()
}

// Release stops the workers and drops the frame buffer.
func (b *LensedBackground) Release() {
	b.renderer.Stop()
	b.buf = nil
}
