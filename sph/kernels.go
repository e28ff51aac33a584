package sph

import "math"

// Kernels evaluates the three smoothing functions for a fixed smoothing radius.
// Normalization constants are computed once by NewKernels.
type Kernels struct {
	h  float32
	h2 float32

	poly6Norm float32 // 4 / (π h⁸)
	spikyNorm float32 // -10 / (π h⁵)
	viscNorm  float32 // 40 / (π h⁵)
}

// NewKernels precomputes normalization constants for smoothing radius h.
func NewKernels(h float32) Kernels {
	hf := float64(h)
	return Kernels{
		h:         h,
		h2:        h * h,
		poly6Norm: float32(4.0 / (math.Pi * math.Pow(hf, 8))),
		spikyNorm: float32(-10.0 / (math.Pi * math.Pow(hf, 5))),
		viscNorm:  float32(40.0 / (math.Pi * math.Pow(hf, 5))),
	}
}

// Radius returns the smoothing radius.
func (k Kernels) Radius() float32 { return k.h }

// Poly6 weights density contributions by squared distance r2.
func (k Kernels) Poly6(r2 float32) float32 {
	if r2 < 0 || r2 >= k.h2 {
		return 0
	}
	d := k.h2 - r2
	return k.poly6Norm * d * d * d
}

// SpikyGrad weights pressure-gradient contributions by distance r.
// The falloff is cubic in (h - r).
func (k Kernels) SpikyGrad(r float32) float32 {
	if r < 0 || r >= k.h {
		return 0
	}
	d := k.h - r
	return k.spikyNorm * d * d * d
}

// ViscLaplacian weights viscous contributions by distance r.
func (k Kernels) ViscLaplacian(r float32) float32 {
	if r < 0 || r >= k.h {
		return 0
	}
	return k.viscNorm * (k.h - r)
}
