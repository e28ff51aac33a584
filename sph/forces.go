package sph

// computeForces fills ForceX and ForceY for particles [i0, i1) from the density and
// pressure written by computeDensityPressure in the same tick.
//
// A neighbour with zero density divides by zero. That is left alone: the resulting
// NaN/Inf propagates and is reported by validation mode when enabled.
func computeForces(s *Store, p *Params, k *Kernels, i0, i1 int) {
	posX, posY := s.front.PosX, s.front.PosY
	velX, velY := s.front.VelX, s.front.VelY
	rho, press := s.Density, s.Pressure
	n := len(posX)
	mass := p.Mass
	visc := p.Viscosity
	h := k.h

	for i := i0; i < i1; i++ {
		xi, yi := posX[i], posY[i]
		vxi, vyi := velX[i], velY[i]
		pi := press[i]

		var fpx, fpy, fvx, fvy float32
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			dx := posX[j] - xi
			dy := posY[j] - yi
			r := sqrtf(dx*dx + dy*dy)
			if r >= h {
				continue
			}

			// Coincident particles have no direction; their pressure term vanishes.
			var nx, ny float32
			if r > 0 {
				nx, ny = dx/r, dy/r
			}
			pm := mass * (pi + press[j]) / (2 * rho[j]) * k.SpikyGrad(r)
			fpx += -nx * pm
			fpy += -ny * pm

			vm := visc * mass / rho[j] * k.ViscLaplacian(r)
			fvx += (velX[j] - vxi) * vm
			fvy += (velY[j] - vyi) * vm
		}

		g := mass / rho[i]
		s.ForceX[i] = fpx + fvx + p.Gravity.X*g
		s.ForceY[i] = fpy + fvy + p.Gravity.Y*g
	}
}
