// Package config provides configuration loading and access for the celestial engine.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Scene     SceneConfig     `yaml:"scene"`
	Noise     NoiseConfig     `yaml:"noise"`
	Galaxy    GalaxyConfig    `yaml:"galaxy"`
	Debris    DebrisConfig    `yaml:"debris"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Lens      LensConfig      `yaml:"lens"`
	Starfield StarfieldConfig `yaml:"starfield"`
	BlackHole BlackHoleConfig `yaml:"black_hole"`
	Quasar    QuasarConfig    `yaml:"quasar"`
	Pulsar    PulsarConfig    `yaml:"pulsar"`
	Jet       JetConfig       `yaml:"jet"`
	Nebula    NebulaConfig    `yaml:"nebula"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// HexColor is a "#rrggbb" color string.
type HexColor string

// Parse converts the hex string to RGB components in [0, 1].
func (h HexColor) Parse() (mgl32.Vec3, error) {
	c, err := colorful.Hex(string(h))
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("parsing color %q: %w", string(h), err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// Vec3 returns the parsed color, or black if the string is malformed.
// Load rejects malformed colors, so a loaded config never hits the fallback.
func (h HexColor) Vec3() mgl32.Vec3 {
	v, err := h.Parse()
	if err != nil {
		return mgl32.Vec3{}
	}
	return v
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	TargetFPS      int `yaml:"target_fps"`
	LensResolution int `yaml:"lens_resolution"` // Horizontal pixels of the CPU lensing pass
}

// SceneConfig holds host scene settings.
type SceneConfig struct {
	Initial        string  `yaml:"initial"`    // Selection shown at startup
	Seed           int64   `yaml:"seed"`       // RNG seed for generation (0 = time-based)
	CameraFOV      float64 `yaml:"camera_fov"` // Vertical field of view in degrees
	CameraDistance float64 `yaml:"camera_distance"`
}

// NoiseConfig selects the noise kernel used by surface programs.
type NoiseConfig struct {
	Kind string `yaml:"kind"` // simplex or perlin
	Seed int64  `yaml:"seed"`
}

// GalaxyConfig holds spiral galaxy distribution parameters.
type GalaxyConfig struct {
	Count           int      `yaml:"count"`      // Spiral-arm particles
	CoreCount       int      `yaml:"core_count"` // Dense core particles
	Radius          float64  `yaml:"radius"`
	CoreRadius      float64  `yaml:"core_radius"`
	Branches        int      `yaml:"branches"`
	Spin            float64  `yaml:"spin"`
	Randomness      float64  `yaml:"randomness"`
	RandomnessPower float64  `yaml:"randomness_power"` // Bias exponent; higher = tighter arms
	InsideColor     HexColor `yaml:"inside_color"`
	OutsideColor    HexColor `yaml:"outside_color"`
	BarRadius       float64  `yaml:"bar_radius"`      // Spin is attenuated inside this radius
	BarSpinFactor   float64  `yaml:"bar_spin_factor"` // Attenuation applied inside the bar
	CoreFlatten     float64  `yaml:"core_flatten"`    // Y scale of the core ellipsoid
	ColorJitter     float64  `yaml:"color_jitter"`    // Full width of per-point chroma jitter
	CoreTint        float64  `yaml:"core_tint"`       // Max warm tint added to core points
	Tilt            float64  `yaml:"tilt"`            // Group tilt about X in radians
	RotationSpeed   float64  `yaml:"rotation_speed"`  // Radians per second about Y
	PointSize       float64  `yaml:"point_size"`
}

// DebrisConfig holds supernova debris distribution parameters.
type DebrisConfig struct {
	Count     int     `yaml:"count"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	MinSpeed  float64 `yaml:"min_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
	HueMin    float64 `yaml:"hue_min"` // HSL hue in [0, 1]
	HueMax    float64 `yaml:"hue_max"`
	LightMin  float64 `yaml:"light_min"`
	LightMax  float64 `yaml:"light_max"`
	PointSize float64 `yaml:"point_size"`
}

// TimelineConfig holds explosion choreography constants.
type TimelineConfig struct {
	Period         float64 `yaml:"period"`          // Loop length in seconds
	CorePulseFreq  float64 `yaml:"core_pulse_freq"` // Requested pulse frequency (rad/s), snapped to the period
	CorePulseAmp   float64 `yaml:"core_pulse_amp"`
	CoreFade       float64 `yaml:"core_fade"` // Opacity loss per second
	ExplosionSpeed float64 `yaml:"explosion_speed"`
	InnerSpeed     float64 `yaml:"inner_speed"` // Multiplier on explosion speed for shockwave 1
	OuterSpeed     float64 `yaml:"outer_speed"` // Multiplier on explosion speed for shockwave 2
	InnerFade      float64 `yaml:"inner_fade"`
	OuterCeiling   float64 `yaml:"outer_ceiling"`
	OuterFade      float64 `yaml:"outer_fade"`
	ParticleFade   float64 `yaml:"particle_fade"`
	InnerSpin      float64 `yaml:"inner_spin"` // rad/s about Z
	OuterSpin      float64 `yaml:"outer_spin"` // rad/s about Y
	Acceleration   float64 `yaml:"acceleration"`
}

// LensConfig holds lensing model parameters.
type LensConfig struct {
	Rs               float64  `yaml:"rs"`
	Epsilon          float64  `yaml:"epsilon"`
	MaxDeflection    float64  `yaml:"max_deflection"`
	DeflectionGain   float64  `yaml:"deflection_gain"` // Numerator coefficient of gain*rs/b
	RingWidth        float64  `yaml:"ring_width"`      // Gaussian width as a fraction of the ring band
	RingGain         float64  `yaml:"ring_gain"`
	RingColor        HexColor `yaml:"ring_color"`
	GlowColor        HexColor `yaml:"glow_color"`
	GlowStrength     float64  `yaml:"glow_strength"`
	BackgroundRadius float64  `yaml:"background_radius"`
}

// StarfieldConfig holds procedural background parameters.
type StarfieldConfig struct {
	Density    float64 `yaml:"density"`   // Cells around the equator
	Threshold  float64 `yaml:"threshold"` // Hash value above which a cell holds a star
	Brightness float64 `yaml:"brightness"`
}

// DiskConfig holds accretion disk surface parameters.
type DiskConfig struct {
	InnerRadius  float64  `yaml:"inner_radius"`
	OuterRadius  float64  `yaml:"outer_radius"`
	InnerColor   HexColor `yaml:"inner_color"`
	MidColor     HexColor `yaml:"mid_color"`
	OuterColor   HexColor `yaml:"outer_color"`
	MidStop      float64  `yaml:"mid_stop"`    // Normalized radius where mid color peaks
	AngleFreq    float64  `yaml:"angle_freq"`  // k
	RadialFreq   float64  `yaml:"radial_freq"` // k2
	SwirlSpeed   float64  `yaml:"swirl_speed"` // omega
	DetailWeight float64  `yaml:"detail_weight"`
	FineWeight   float64  `yaml:"fine_weight"`
	BoostBase    float64  `yaml:"boost_base"`
	BoostGain    float64  `yaml:"boost_gain"`
	Doppler      float64  `yaml:"doppler"`
	EdgeSoftness float64  `yaml:"edge_softness"`
	Tilt         float64  `yaml:"tilt"`
}

// BlackHoleConfig holds black hole skeleton parameters. The horizon radius comes from lens.rs.
type BlackHoleConfig struct {
	Disk     DiskConfig `yaml:"disk"`
	RingTube float64    `yaml:"ring_tube"`
	DiskSpin float64    `yaml:"disk_spin"`
}

// QuasarConfig holds quasar skeleton parameters.
type QuasarConfig struct {
	EyeRadius       float64    `yaml:"eye_radius"`
	GlowRadius      float64    `yaml:"glow_radius"`
	GlowOpacity     float64    `yaml:"glow_opacity"`
	HaloRadius      float64    `yaml:"halo_radius"`
	HaloOpacity     float64    `yaml:"halo_opacity"`
	HaloColor       HexColor   `yaml:"halo_color"`
	Disk            DiskConfig `yaml:"disk"`
	JetLength       float64    `yaml:"jet_length"`
	JetTopRadius    float64    `yaml:"jet_top_radius"`
	JetBottomRadius float64    `yaml:"jet_bottom_radius"`
}

// JetConfig holds jet surface parameters.
type JetConfig struct {
	CoreWidth   float64  `yaml:"core_width"`
	GlowWidth   float64  `yaml:"glow_width"`
	GlowInner   float64  `yaml:"glow_inner"`
	GlowWeight  float64  `yaml:"glow_weight"`
	NearLength  float64  `yaml:"near_length"`
	FarLength   float64  `yaml:"far_length"`
	PulseFreq   float64  `yaml:"pulse_freq"`
	PulseSpeed  float64  `yaml:"pulse_speed"`
	Pulse2Freq  float64  `yaml:"pulse2_freq"`
	Pulse2Speed float64  `yaml:"pulse2_speed"`
	WobbleAmp   float64  `yaml:"wobble_amp"`
	WobbleFreq  float64  `yaml:"wobble_freq"`
	WobbleSpeed float64  `yaml:"wobble_speed"`
	WobbleSpan  float64  `yaml:"wobble_span"` // Axial distance over which wobble reaches full amplitude
	CoreColor   HexColor `yaml:"core_color"`
	GlowColor   HexColor `yaml:"glow_color"`
}

// PulsarConfig holds pulsar skeleton parameters.
type PulsarConfig struct {
	StarRadius float64   `yaml:"star_radius"`
	BeamLength float64   `yaml:"beam_length"`
	BeamRadius float64   `yaml:"beam_radius"`
	SpinRate   float64   `yaml:"spin_rate"` // rad/s about Y
	WobbleFreq float64   `yaml:"wobble_freq"`
	WobbleAmp  float64   `yaml:"wobble_amp"`
	FieldRadii []float64 `yaml:"field_radii"`
	FieldTube  float64   `yaml:"field_tube"`
	StarColor  HexColor  `yaml:"star_color"`
	BeamColor  HexColor  `yaml:"beam_color"`
	FieldColor HexColor  `yaml:"field_color"`
}

// NebulaConfig holds nebula shell surface parameters.
type NebulaConfig struct {
	Scale      float64  `yaml:"scale"`
	Drift      float64  `yaml:"drift"`
	EdgeBase   float64  `yaml:"edge_base"`
	EdgeGain   float64  `yaml:"edge_gain"`
	EdgePower  float64  `yaml:"edge_power"`
	Highlight  float64  `yaml:"highlight"`
	InnerColor HexColor `yaml:"inner_color"`
	MidColor   HexColor `yaml:"mid_color"`
	OuterColor HexColor `yaml:"outer_color"`
}

// TelemetryConfig holds frame telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds between perf log lines
	PerfWindow  int     `yaml:"perf_window"`  // Frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PhotonSphere  float64 // 1.5 * Lens.Rs
	CorePulseFreq float64 // Timeline.CorePulseFreq snapped to whole cycles per period
	ScreenW32     float32
	ScreenH32     float32
	LensW, LensH  int // CPU lensing pass resolution, aspect-matched to the screen
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if the embedded file is invalid.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the engine cannot interpret. Numeric degeneracies
// (zero counts, inverted radii) are valid and handled downstream.
func (c *Config) validate() error {
	colors := map[string]HexColor{
		"galaxy.inside_color":         c.Galaxy.InsideColor,
		"galaxy.outside_color":        c.Galaxy.OutsideColor,
		"lens.ring_color":             c.Lens.RingColor,
		"lens.glow_color":             c.Lens.GlowColor,
		"black_hole.disk.inner_color": c.BlackHole.Disk.InnerColor,
		"black_hole.disk.mid_color":   c.BlackHole.Disk.MidColor,
		"black_hole.disk.outer_color": c.BlackHole.Disk.OuterColor,
		"quasar.disk.inner_color":     c.Quasar.Disk.InnerColor,
		"quasar.disk.mid_color":       c.Quasar.Disk.MidColor,
		"quasar.disk.outer_color":     c.Quasar.Disk.OuterColor,
		"quasar.halo_color":           c.Quasar.HaloColor,
		"jet.core_color":              c.Jet.CoreColor,
		"jet.glow_color":              c.Jet.GlowColor,
		"pulsar.star_color":           c.Pulsar.StarColor,
		"pulsar.beam_color":           c.Pulsar.BeamColor,
		"pulsar.field_color":          c.Pulsar.FieldColor,
		"nebula.inner_color":          c.Nebula.InnerColor,
		"nebula.mid_color":            c.Nebula.MidColor,
		"nebula.outer_color":          c.Nebula.OuterColor,
	}
	for key, hex := range colors {
		if _, err := hex.Parse(); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	switch c.Noise.Kind {
	case "simplex", "perlin":
	default:
		return fmt.Errorf("noise.kind: unknown kernel %q", c.Noise.Kind)
	}

	if c.Timeline.Period <= 0 {
		return fmt.Errorf("timeline.period: must be positive, got %v", c.Timeline.Period)
	}

	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PhotonSphere = 1.5 * c.Lens.Rs
	c.Derived.CorePulseFreq = SnapFrequency(c.Timeline.CorePulseFreq, c.Timeline.Period)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	lensW := c.Screen.LensResolution
	if lensW <= 0 {
		lensW = 160
	}
	lensH := lensW
	if c.Screen.Width > 0 {
		lensH = lensW * c.Screen.Height / c.Screen.Width
	}
	if lensH < 1 {
		lensH = 1
	}
	c.Derived.LensW = lensW
	c.Derived.LensH = lensH
}

// SnapFrequency rounds an angular frequency to the nearest value that completes a
// whole number of cycles in period, so sin(t*f) repeats exactly every period.
func SnapFrequency(freq, period float64) float64 {
	if period <= 0 {
		return freq
	}
	cycles := math.Round(freq * period / (2 * math.Pi))
	return cycles * 2 * math.Pi / period
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
