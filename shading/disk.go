package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/cosmos/noise"
)

// DiskParams tune the accretion disk program.
type DiskParams struct {
	MidStop      float32 // Normalized radius where the mid color takes over
	AngleFreq    float32 // Angular noise frequency (k)
	RadialFreq   float32 // Radial noise frequency (k2)
	SwirlSpeed   float32 // Noise advection speed (omega)
	DetailWeight float32 // Weight of the coarse swirl octave
	FineWeight   float32 // Weight of the fine octave
	BoostBase    float32 // Inner brightness: base + gain/r²
	BoostGain    float32
	Doppler      float32 // Beaming strength; brighter on the approaching side
	EdgeSoftness float32 // Width of the alpha fade at each radius
}

// DefaultDiskParams returns the quasar disk tuning.
func DefaultDiskParams() DiskParams {
	return DiskParams{
		MidStop:      0.5,
		AngleFreq:    5,
		RadialFreq:   2,
		SwirlSpeed:   2,
		DetailWeight: 0.3,
		FineWeight:   0.1,
		BoostBase:    1.5,
		BoostGain:    2,
		Doppler:      0.5,
		EdgeSoftness: 0.4,
	}
}

// Disk shades a flat ring in the local xy plane.
type Disk struct {
	DiskParams
	Noise noise.Kernel
}

// NewDisk creates a disk program sampling k.
func NewDisk(p DiskParams, k noise.Kernel) *Disk {
	return &Disk{DiskParams: p, Noise: k}
}

// Shade implements Program.
func (d *Disk) Shade(f Fragment, u SurfaceUniforms) mgl32.Vec4 {
	x, y := f.Pos[0], f.Pos[1]
	r := float32(math.Sqrt(float64(x*x + y*y)))
	angle := float32(math.Atan2(float64(y), float64(x)))

	var t float32
	if span := u.OuterRadius - u.InnerRadius; span > 0 {
		t = Clamp01((r - u.InnerRadius) / span)
	} else if r >= u.InnerRadius {
		t = 1
	}

	c := Mix(u.InnerColor, u.MidColor, Smoothstep(0, d.MidStop, t))
	c = Mix(c, u.OuterColor, Smoothstep(d.MidStop, 1, t))

	swirl := u.Time * d.SwirlSpeed
	n1 := d.Noise.Eval2(
		float64(angle*d.AngleFreq-swirl+r*d.RadialFreq),
		float64(r*d.RadialFreq-swirl),
	)
	n2 := d.Noise.Eval2(
		float64(angle*d.AngleFreq*2-swirl*1.5),
		float64(r*d.RadialFreq*2.5),
	)
	detail := float32(n1)*d.DetailWeight + float32(n2)*d.FineWeight

	c = c.Mul(max(0, 0.8+detail*1.2))
	c = c.Mul(1 + d.Doppler*sin32(angle))
	c = c.Mul(d.BoostBase + d.BoostGain/max(r*r, 1e-4))

	alpha := Smoothstep(u.InnerRadius, u.InnerRadius+d.EdgeSoftness, r) *
		Smoothstep(u.OuterRadius, u.OuterRadius-d.EdgeSoftness, r)

	return mgl32.Vec4{c[0], c[1], c[2], alpha}
}
