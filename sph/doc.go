// Package sph implements a two-dimensional Smoothed Particle Hydrodynamics kernel.
//
// A [Simulation] owns a fixed-capacity particle store and advances it one tick at a
// time. Each tick runs three data-parallel passes in strict order:
//
//   - density/pressure: every particle sums Poly6-weighted mass from all particles
//   - forces: pressure gradient (Spiky), viscosity (Laplacian) and gravity
//   - integration: semi-implicit Euler followed by damped wall collisions
//
// Neighbour search is exhaustive all-pairs. Kernels return zero beyond the smoothing
// radius, which is what encodes the neighbour relation.
//
// Positions and velocities are double-buffered: every pass reads the front buffer and
// integration writes the back buffer, which becomes the front buffer once the tick
// completes. Derived fields (density, pressure, force) are each written by exactly one
// pass and only read by later passes. Worker goroutines therefore never write a slot
// that another worker reads during the same pass.
//
// Trajectories are deterministic for a given seed and independent of the worker count.
package sph
