// Package celestial assembles the procedural bodies shown by the viewer.
// Each object builds its scene skeleton once and afterwards only mutates
// uniforms, transforms, opacities and particle positions in Advance.
package celestial

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cosmos/config"
	"github.com/pthm-cable/cosmos/noise"
	"github.com/pthm-cable/cosmos/scene"
	"github.com/pthm-cable/cosmos/shading"
)

// Kind identifies a celestial object variant.
type Kind uint8

const (
	KindBlackHole Kind = iota
	KindQuasar
	KindPulsar
	KindGalaxy
	KindSupernova
)

func (k Kind) String() string {
	switch k {
	case KindBlackHole:
		return "black_hole"
	case KindQuasar:
		return "quasar"
	case KindPulsar:
		return "pulsar"
	case KindGalaxy:
		return "galaxy"
	case KindSupernova:
		return "supernova"
	}
	return "unknown"
}

// Selection is what the host asked to show. House is the terrestrial
// vignette and maps to no celestial object.
type Selection int32

const (
	SelectHouse Selection = iota
	SelectBlackHole
	SelectQuasar
	SelectPulsar
	SelectGalaxy
	SelectSupernova
)

// Selections lists every selection in menu order.
var Selections = []Selection{
	SelectHouse, SelectBlackHole, SelectQuasar, SelectPulsar, SelectGalaxy, SelectSupernova,
}

func (s Selection) String() string {
	if s == SelectHouse {
		return "house"
	}
	if k, ok := s.Kind(); ok {
		return k.String()
	}
	return "unknown"
}

// Kind returns the object kind for s; ok is false for house.
func (s Selection) Kind() (Kind, bool) {
	switch s {
	case SelectBlackHole:
		return KindBlackHole, true
	case SelectQuasar:
		return KindQuasar, true
	case SelectPulsar:
		return KindPulsar, true
	case SelectGalaxy:
		return KindGalaxy, true
	case SelectSupernova:
		return KindSupernova, true
	}
	return 0, false
}

// ParseSelection parses a selection name such as "black_hole".
func ParseSelection(name string) (Selection, error) {
	for _, s := range Selections {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown selection %q", name)
}

// Object is one assembled celestial body.
type Object interface {
	Kind() Kind
	// Advance updates animation state for elapsed seconds t.
	Advance(t float64)
	Graph() *scene.Graph
	// Release frees point buffers and removes all scene nodes.
	Release()
}

// Lensed is implemented by objects that bend the background behind them.
type Lensed interface {
	Lensing() *LensedBackground
}

// Env carries the shared inputs objects are built from.
type Env struct {
	Cfg   *config.Config
	Noise noise.Kernel
	Rng   *rand.Rand
}

// NewEnv builds an Env from the configuration and a generation seed.
func NewEnv(cfg *config.Config, seed int64) (Env, error) {
	k, err := noise.New(cfg.Noise.Kind, cfg.Noise.Seed)
	if err != nil {
		return Env{}, fmt.Errorf("creating noise kernel: %w", err)
	}
	return Env{Cfg: cfg, Noise: k, Rng: rand.New(rand.NewSource(seed))}, nil
}

// New builds an object of the given kind.
func New(kind Kind, env Env) (Object, error) {
	switch kind {
	case KindBlackHole:
		return NewBlackHole(env), nil
	case KindQuasar:
		return NewQuasar(env), nil
	case KindPulsar:
		return NewPulsar(env), nil
	case KindGalaxy:
		return NewGalaxy(env), nil
	case KindSupernova:
		return NewSupernova(env), nil
	}
	return nil, fmt.Errorf("unknown kind %d", kind)
}

// DiskProgram builds the accretion disk program and its color uniforms.
func DiskProgram(dc config.DiskConfig, k noise.Kernel) (*shading.Disk, shading.SurfaceUniforms) {
	p := shading.DiskParams{
		MidStop:      float32(dc.MidStop),
		AngleFreq:    float32(dc.AngleFreq),
		RadialFreq:   float32(dc.RadialFreq),
		SwirlSpeed:   float32(dc.SwirlSpeed),
		DetailWeight: float32(dc.DetailWeight),
		FineWeight:   float32(dc.FineWeight),
		BoostBase:    float32(dc.BoostBase),
		BoostGain:    float32(dc.BoostGain),
		Doppler:      float32(dc.Doppler),
		EdgeSoftness: float32(dc.EdgeSoftness),
	}
	u := shading.SurfaceUniforms{
		InnerColor:  dc.InnerColor.Vec3(),
		MidColor:    dc.MidColor.Vec3(),
		OuterColor:  dc.OuterColor.Vec3(),
		InnerRadius: float32(dc.InnerRadius),
		OuterRadius: float32(dc.OuterRadius),
	}
	return shading.NewDisk(p, k), u
}

func jetProgram(jc config.JetConfig) *shading.Jet {
	p := shading.DefaultJetParams()
	p.CoreWidth = float32(jc.CoreWidth)
	p.GlowWidth = float32(jc.GlowWidth)
	p.GlowInner = float32(jc.GlowInner)
	p.GlowWeight = float32(jc.GlowWeight)
	p.PulseFreq = float32(jc.PulseFreq)
	p.PulseSpeed = float32(jc.PulseSpeed)
	p.Pulse2Freq = float32(jc.Pulse2Freq)
	p.Pulse2Speed = float32(jc.Pulse2Speed)
	p.WobbleAmp = float32(jc.WobbleAmp)
	p.WobbleFreq = float32(jc.WobbleFreq)
	p.WobbleSpeed = float32(jc.WobbleSpeed)
	p.WobbleSpan = float32(jc.WobbleSpan)
	return shading.NewJet(p)
}

func sphere(radius float32, color mgl32.Vec3, opacity float32, blend scene.Blend) scene.Drawable {
	return scene.Drawable{
		Shape:   scene.ShapeSphere,
		Size:    mgl32.Vec3{radius},
		Color:   color,
		Opacity: opacity,
		Blend:   blend,
	}
}

// setTime writes t into the uniforms of every programmed drawable.
func setTime(g *scene.Graph, t float64) {
	g.Each(func(_ ecs.Entity, _ mgl32.Mat4, d *scene.Drawable) {
		if d.Program != nil {
			d.Uniforms.Time = float32(t)
		}
	})
}
