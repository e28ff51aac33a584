package main

import (
	"github.com/pthm-cable/sph/config"
)

// ParamSpec is one tunable physics constant. Field returns the config slot it lives in.
type ParamSpec struct {
	Name     string
	Min, Max float64
	Field    func(*config.Config) *float64
}

// ParamVector maps between optimizer coordinates in [0,1] and config values.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the constants the tuner searches over.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "gas_constant", Min: 500, Max: 6000,
			Field: func(c *config.Config) *float64 { return &c.Physics.GasConstant },
		},
		{
			Name: "viscosity", Min: 50, Max: 600,
			Field: func(c *config.Config) *float64 { return &c.Physics.Viscosity },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize maps raw values onto [0,1] per parameter range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return out
}

// Denormalize is the inverse of Normalize.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.Min + unit[i]*(s.Max-s.Min)
	}
	return out
}

// Clamp bounds each value to its parameter range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = min(max(v[i], s.Min), s.Max)
	}
	return out
}

// ApplyToConfig writes clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].Field(cfg) = v
	}
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = *s.Field(cfg)
	}
	return out
}
