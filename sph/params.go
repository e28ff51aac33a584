package sph

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by New when a parameter would make the kernel ill-defined.
var ErrInvalidConfig = errors.New("sph: invalid configuration")

// Params holds the physical constants of a simulation. They are fixed at construction.
type Params struct {
	SmoothingRadius float32 // H: interaction cutoff, also the wall margin
	RestDensity     float32 // density at which pressure is zero
	GasConstant     float32 // equation-of-state stiffness
	Mass            float32 // per-particle mass
	Viscosity       float32 // dynamic viscosity coefficient
	Timestep        float32 // integration step
	BoundDamping    float32 // velocity multiplier on wall contact
	Gravity         Vec2    // gravitational acceleration
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		SmoothingRadius: 16.0,
		RestDensity:     300.0,
		GasConstant:     2000.0,
		Mass:            2.5,
		Viscosity:       200.0,
		Timestep:        0.0007,
		BoundDamping:    -0.5,
		Gravity:         Vec2{0, -9.81},
	}
}

// Eps returns the wall margin. Particles are kept at least this far from every wall.
func (p Params) Eps() float32 {
	return p.SmoothingRadius
}

// Validate reports parameters that would lead to a division by zero or an empty kernel.
func (p Params) Validate() error {
	if !(p.SmoothingRadius > 0) {
		return fmt.Errorf("%w: smoothing radius must be positive, got %v", ErrInvalidConfig, p.SmoothingRadius)
	}
	if !(p.Timestep > 0) {
		return fmt.Errorf("%w: timestep must be positive, got %v", ErrInvalidConfig, p.Timestep)
	}
	if !(p.Mass > 0) {
		return fmt.Errorf("%w: particle mass must be positive, got %v", ErrInvalidConfig, p.Mass)
	}
	return nil
}
