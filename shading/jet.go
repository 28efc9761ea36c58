package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// JetParams tune the jet program. The jet axis is local Y.
type JetParams struct {
	CoreWidth   float32 // Radius where the white core fades out
	GlowWidth   float32 // Radius where the colored glow fades out
	GlowInner   float32 // Radius where the glow reaches full strength
	GlowWeight  float32
	PulseFreq   float32
	PulseSpeed  float32
	Pulse2Freq  float32
	Pulse2Speed float32
	WobbleAmp   float32
	WobbleFreq  float32
	WobbleSpeed float32
	WobbleSpan  float32 // Axial distance over which wobble grows to full amplitude
}

// DefaultJetParams returns the quasar jet tuning.
func DefaultJetParams() JetParams {
	return JetParams{
		CoreWidth:   0.6,
		GlowWidth:   1.5,
		GlowInner:   0.2,
		GlowWeight:  0.5,
		PulseFreq:   1.5,
		PulseSpeed:  8,
		Pulse2Freq:  3,
		Pulse2Speed: 12,
		WobbleAmp:   0.1,
		WobbleFreq:  2,
		WobbleSpeed: 5,
		WobbleSpan:  10,
	}
}

// Jet shades a tapered cylinder. Uniforms: InnerColor is the core color,
// OuterColor the glow color, InnerRadius the fully visible length and
// OuterRadius the length where the jet has faded out.
type Jet struct {
	JetParams
}

// NewJet creates a jet program.
func NewJet(p JetParams) *Jet {
	return &Jet{JetParams: p}
}

// Shade implements Program.
func (j *Jet) Shade(f Fragment, u SurfaceUniforms) mgl32.Vec4 {
	x, y, z := f.Pos[0], f.Pos[1], f.Pos[2]
	r := float32(math.Sqrt(float64(x*x + z*z)))

	pulse := sin32(y*j.PulseFreq-u.Time*j.PulseSpeed)*0.5 + 0.5
	pulse2 := cos32(y*j.Pulse2Freq-u.Time*j.Pulse2Speed)*0.3 + 0.7

	core := Smoothstep(j.CoreWidth, 0, r)
	glow := Smoothstep(j.GlowWidth, j.GlowInner, r) * j.GlowWeight

	fade := Smoothstep(u.OuterRadius, u.InnerRadius, abs32(y))

	c := Mix(u.OuterColor, u.InnerColor, core).Mul(pulse*pulse2*2 + 1)
	return mgl32.Vec4{c[0], c[1], c[2], Clamp01(fade * (core + glow))}
}

// Displace applies the traveling wobble to a jet vertex. The offset grows
// linearly with distance along the axis.
func (j *Jet) Displace(pos mgl32.Vec3, time float32) mgl32.Vec3 {
	if j.WobbleSpan == 0 {
		return pos
	}
	phase := pos[1]*j.WobbleFreq - time*j.WobbleSpeed
	k := pos[1] / j.WobbleSpan
	pos[0] += sin32(phase) * j.WobbleAmp * k
	pos[2] += cos32(phase) * j.WobbleAmp * k
	return pos
}
