package main

import (
	"github.com/pthm-cable/cosmos/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of sky and lens parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Starfield
			{Name: "star_density", Path: "starfield.density", Min: 50, Max: 1200, Default: 400},
			{Name: "star_threshold", Path: "starfield.threshold", Min: 0.9, Max: 0.999, Default: 0.985},
			{Name: "star_brightness", Path: "starfield.brightness", Min: 0.2, Max: 2.0, Default: 1.0},
			// Lens glow
			{Name: "ring_width", Path: "lens.ring_width", Min: 0.1, Max: 1.0, Default: 0.35},
			{Name: "ring_gain", Path: "lens.ring_gain", Min: 0.5, Max: 10, Default: 5},
			{Name: "glow_strength", Path: "lens.glow_strength", Min: 0, Max: 1.5, Default: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp restricts values to their bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)
	for i, spec := range pv.Specs {
		switch spec.Name {
		case "star_density":
			cfg.Starfield.Density = v[i]
		case "star_threshold":
			cfg.Starfield.Threshold = v[i]
		case "star_brightness":
			cfg.Starfield.Brightness = v[i]
		case "ring_width":
			cfg.Lens.RingWidth = v[i]
		case "ring_gain":
			cfg.Lens.RingGain = v[i]
		case "glow_strength":
			cfg.Lens.GlowStrength = v[i]
		}
	}
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		switch spec.Name {
		case "star_density":
			v[i] = cfg.Starfield.Density
		case "star_threshold":
			v[i] = cfg.Starfield.Threshold
		case "star_brightness":
			v[i] = cfg.Starfield.Brightness
		case "ring_width":
			v[i] = cfg.Lens.RingWidth
		case "ring_gain":
			v[i] = cfg.Lens.RingGain
		case "glow_strength":
			v[i] = cfg.Lens.GlowStrength
		}
	}
	return v
}
