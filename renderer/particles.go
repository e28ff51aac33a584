// Package renderer draws fluid particles with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/sph"
)

// Density ramp stops, from sparse to compressed.
var (
	colorSparse     = rl.Color{R: 20, G: 60, B: 160, A: 255}
	colorRest       = rl.Color{R: 40, G: 170, B: 230, A: 255}
	colorCompressed = rl.Color{R: 235, G: 245, B: 255, A: 255}
	colorInvalid    = rl.Color{R: 230, G: 40, B: 40, A: 255}
	colorBorder     = rl.Color{R: 80, G: 90, B: 100, A: 255}
)

// ParticleRenderer renders fluid particles colored by density.
type ParticleRenderer struct {
	pointSize   float32 // screen radius at fit zoom
	restDensity float32
	maxRatio    float32 // density/rest ratio that maps to the top of the ramp
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(pointSize, restDensity, maxRatio float32) *ParticleRenderer {
	if maxRatio <= 1 {
		maxRatio = 2
	}
	return &ParticleRenderer{
		pointSize:   pointSize,
		restDensity: restDensity,
		maxRatio:    maxRatio,
	}
}

// DensityColor maps a density to the ramp. Rest density sits at the middle stop;
// non-finite densities are drawn red.
func (r *ParticleRenderer) DensityColor(density float32) rl.Color {
	if d := float64(density); math.IsNaN(d) || math.IsInf(d, 0) {
		return colorInvalid
	}
	if r.restDensity <= 0 {
		return colorRest
	}
	ratio := density / r.restDensity
	if ratio <= 1 {
		return lerpColor(colorSparse, colorRest, clamp01(ratio))
	}
	return lerpColor(colorRest, colorCompressed, clamp01((ratio-1)/(r.maxRatio-1)))
}

// Draw renders all particles in the snapshot plus the domain outline.
func (r *ParticleRenderer) Draw(snap *sph.Snapshot, cam *camera.Camera) {
	r.drawDomain(cam)

	radius := r.pointSize * cam.Zoom / cam.MinZoom
	if radius < 1 {
		radius = 1
	}

	for i := 0; i < snap.Len(); i++ {
		x, y := snap.PosX[i], snap.PosY[i]
		if !cam.IsVisible(x, y, radius/cam.Zoom) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, r.DensityColor(snap.Density[i]))
	}
}

func (r *ParticleRenderer) drawDomain(cam *camera.Camera) {
	x0, y0 := cam.WorldToScreen(0, cam.WorldH)
	x1, y1 := cam.WorldToScreen(cam.WorldW, 0)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, colorBorder)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
