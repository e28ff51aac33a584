package sph

import "gonum.org/v1/gonum/blas/blas32"

// bounds is the simulation domain with its wall margin.
type bounds struct {
	width, height float32
	eps           float32
}

// integrate advances particles [i0, i1) from the front buffer into the back buffer and
// applies damped wall collisions. It reads nothing outside its own index range.
func integrate(s *Store, p *Params, b bounds, i0, i1 int) {
	if i0 >= i1 {
		return
	}
	src, dst := &s.front, &s.back
	dt := p.Timestep

	for i := i0; i < i1; i++ {
		rho := s.Density[i]
		dst.VelX[i] = src.VelX[i] + dt*s.ForceX[i]/rho
		dst.VelY[i] = src.VelY[i] + dt*s.ForceY[i]/rho
	}

	// x' = x + dt·v'
	m := i1 - i0
	advance := func(pos, newPos, newVel []float32) {
		x := blas32.Vector{N: m, Inc: 1, Data: pos[i0:i1]}
		y := blas32.Vector{N: m, Inc: 1, Data: newPos[i0:i1]}
		v := blas32.Vector{N: m, Inc: 1, Data: newVel[i0:i1]}
		blas32.Copy(x, y)
		blas32.Axpy(dt, v, y)
	}
	advance(src.PosX, dst.PosX, dst.VelX)
	advance(src.PosY, dst.PosY, dst.VelY)

	damping := p.BoundDamping
	for i := i0; i < i1; i++ {
		if dst.PosX[i]-b.eps < 0 {
			dst.VelX[i] *= damping
			dst.PosX[i] = b.eps
		}
		if dst.PosX[i]+b.eps > b.width {
			dst.VelX[i] *= damping
			dst.PosX[i] = b.width - b.eps
		}
		if dst.PosY[i]-b.eps < 0 {
			dst.VelY[i] *= damping
			dst.PosY[i] = b.eps
		}
		if dst.PosY[i]+b.eps > b.height {
			dst.VelY[i] *= damping
			dst.PosY[i] = b.height - b.eps
		}
	}
}
