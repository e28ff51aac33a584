package sph

// placeFunc places one particle and reports whether seeding may continue.
type placeFunc func(x, y float32) bool

// damBreak walks a column-major lattice over the left part of the domain, spaced by h,
// with a horizontal jitter in [0, 1) on each particle. Points that would fall inside the
// wall margin are skipped.
func damBreak(b bounds, h float32, jitter func() float32, place placeFunc) {
	y := b.eps
	for y < b.height-b.eps*2 {
		y += h
		x := b.width / 10
		for x <= b.width/2.5 {
			x += h
			px := x + jitter()
			if !b.inside(px, y) {
				continue
			}
			if !place(px, y) {
				return
			}
		}
	}
}

// block walks a square lattice centred at (width/2, height/1.5), spaced by 0.95h,
// without jitter.
func block(b bounds, h float32, place placeFunc) {
	half := b.height / 10
	cy := b.height / 1.5
	cx := b.width / 2
	step := h * 0.95

	y := cy - half
	for y < cy+half {
		y += step
		x := cx - half
		for x < cx+half {
			x += step
			if !b.inside(x, y) {
				continue
			}
			if !place(x, y) {
				return
			}
		}
	}
}

func (b bounds) inside(x, y float32) bool {
	return x >= b.eps && x <= b.width-b.eps && y >= b.eps && y <= b.height-b.eps
}
