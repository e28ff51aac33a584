package sph

// computeDensityPressure fills Density and Pressure for particles [i0, i1).
// Every particle contributes, including i itself: the self term is the particle's own
// mass footprint, so an isolated particle has density Mass·Poly6(0).
func computeDensityPressure(s *Store, p *Params, k *Kernels, i0, i1 int) {
	posX, posY := s.front.PosX, s.front.PosY
	n := len(posX)
	mass := p.Mass
	h2 := k.h2

	for i := i0; i < i1; i++ {
		xi, yi := posX[i], posY[i]
		var rho float32
		for j := 0; j < n; j++ {
			dx := posX[j] - xi
			dy := posY[j] - yi
			r2 := dx*dx + dy*dy
			if r2 < h2 {
				rho += mass * k.Poly6(r2)
			}
		}
		s.Density[i] = rho
		s.Pressure[i] = p.GasConstant * (rho - p.RestDensity)
	}
}
