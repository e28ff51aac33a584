package telemetry

import (
	"math"

	"github.com/pthm-cable/sph/sph"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	damBreaks        int
	blocks           int
	particlesPlaced  int
	particlesRefused int
	clears           int
	degenerateTicks  int

	// Scratch buffers reused between flushes
	density []float64
	speeds  []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordDamBreak records a dam-break seeding that asked for requested
// particles and placed placed of them. storeFull reports whether the store
// was at capacity afterwards.
func (c *Collector) RecordDamBreak(requested, placed int, storeFull bool) {
	c.damBreaks++
	c.recordPlacement(requested, placed, storeFull)
}

// RecordBlock records a block spawn.
func (c *Collector) RecordBlock(requested, placed int, storeFull bool) {
	c.blocks++
	c.recordPlacement(requested, placed, storeFull)
}

// recordPlacement counts a shortfall as refused only when capacity caused it.
// A lattice with fewer points than requested is not a refusal.
func (c *Collector) recordPlacement(requested, placed int, storeFull bool) {
	c.particlesPlaced += placed
	if storeFull && requested > placed {
		c.particlesRefused += requested - placed
	}
}

// RecordClear records a store reset.
func (c *Collector) RecordClear() {
	c.clears++
}

// RecordDegenerateTick records a tick whose validation scan found non-finite values.
func (c *Collector) RecordDegenerateTick() {
	c.degenerateTicks++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller must provide:
// - currentTick: the current simulation tick
// - snap: particle state sampled at the end of the window
// - capacity: the store capacity
// - params: physical parameters, for mass and rest density
func (c *Collector) Flush(currentTick int64, snap *sph.Snapshot, capacity int, params sph.Params) WindowStats {
	n := snap.Len()
	c.density = c.density[:0]
	c.speeds = c.speeds[:0]

	var pressureSum, ke float64
	nonFinite := 0
	for i := 0; i < n; i++ {
		d := float64(snap.Density[i])
		p := float64(snap.Pressure[i])
		vx, vy := float64(snap.VelX[i]), float64(snap.VelY[i])

		if !finite(d) || !finite(p) || !finite(vx) || !finite(vy) ||
			!finite(float64(snap.PosX[i])) || !finite(float64(snap.PosY[i])) {
			nonFinite++
			continue
		}

		c.density = append(c.density, d)
		pressureSum += p
		v2 := vx*vx + vy*vy
		ke += 0.5 * float64(params.Mass) * v2
		c.speeds = append(c.speeds, math.Sqrt(v2))
	}

	dMean, dStd, dP10, dP50, dP90 := ComputeDistribution(c.density)

	var pressureMean, densityErr float64
	if len(c.density) > 0 {
		pressureMean = pressureSum / float64(len(c.density))
		if params.RestDensity != 0 {
			densityErr = (dMean - float64(params.RestDensity)) / float64(params.RestDensity)
		}
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Particles: n,
		Capacity:  capacity,

		DamBreaks:        c.damBreaks,
		Blocks:           c.blocks,
		ParticlesPlaced:  c.particlesPlaced,
		ParticlesRefused: c.particlesRefused,
		Clears:           c.clears,
		DegenerateTicks:  c.degenerateTicks,

		DensityMean: dMean,
		DensityStd:  dStd,
		DensityP10:  dP10,
		DensityP50:  dP50,
		DensityP90:  dP90,
		DensityErr:  densityErr,

		PressureMean:  pressureMean,
		KineticEnergy: ke,
		MaxSpeed:      MaxOrZero(c.speeds),
		NonFinite:     nonFinite,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.damBreaks = 0
	c.blocks = 0
	c.particlesPlaced = 0
	c.particlesRefused = 0
	c.clears = 0
	c.degenerateTicks = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
