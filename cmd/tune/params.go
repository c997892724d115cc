package main

import (
	"github.com/ggielly/suicideballs/config"
)

// Knob is one config value the optimizer may move, bounded to [Lo, Hi].
type Knob struct {
	Path   string // yaml path, for reports
	Lo, Hi float64
	field  func(*config.Config) *float64
}

// Knobs is an ordered parameter set; vectors passed to its methods use the
// same order.
type Knobs []Knob

// DefaultKnobs returns the parameters that govern arena population.
func DefaultKnobs() Knobs {
	return Knobs{
		{Path: "physics.friction", Lo: 0.98, Hi: 1.0,
			field: func(c *config.Config) *float64 { return &c.Physics.Friction }},
		{Path: "controls.bounciness", Lo: 0.3, Hi: 1.2,
			field: func(c *config.Config) *float64 { return &c.Controls.Bounciness }},
		{Path: "arena.rotation_speed", Lo: 0.001, Hi: 0.03,
			field: func(c *config.Config) *float64 { return &c.Arena.RotationSpeed }},
		{Path: "arena.gap_angle", Lo: 0.2, Hi: 1.6,
			field: func(c *config.Config) *float64 { return &c.Arena.GapAngle }},
	}
}

// Read returns the knob values currently set in cfg.
func (ks Knobs) Read(cfg *config.Config) []float64 {
	v := make([]float64, len(ks))
	for i, k := range ks {
		v[i] = *k.field(cfg)
	}
	return v
}

// Apply writes values into cfg, clamped to each knob's bounds.
func (ks Knobs) Apply(cfg *config.Config, values []float64) {
	for i, v := range ks.Clamp(values) {
		*ks[i].field(cfg) = v
	}
}

// Normalize maps raw values onto the unit cube the optimizer searches.
func (ks Knobs) Normalize(raw []float64) []float64 {
	return ks.each(raw, func(k Knob, v float64) float64 { return (v - k.Lo) / (k.Hi - k.Lo) })
}

// Denormalize is the inverse of Normalize.
func (ks Knobs) Denormalize(unit []float64) []float64 {
	return ks.each(unit, func(k Knob, u float64) float64 { return k.Lo + u*(k.Hi-k.Lo) })
}

// Clamp limits each value to its knob's bounds.
func (ks Knobs) Clamp(v []float64) []float64 {
	return ks.each(v, func(k Knob, x float64) float64 { return min(max(x, k.Lo), k.Hi) })
}

func (ks Knobs) each(v []float64, f func(Knob, float64) float64) []float64 {
	out := make([]float64, len(ks))
	for i, k := range ks {
		out[i] = f(k, v[i])
	}
	return out
}
