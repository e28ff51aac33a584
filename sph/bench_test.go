package sph

import (
	"fmt"
	"testing"
)

// benchWidth and benchHeight give a dam-break lattice of about 5000 points.
const (
	benchWidth  = 2400
	benchHeight = 1800
)

// Benchmark a single tick across particle and worker counts.
func BenchmarkStep(b *testing.B) {
	particleCounts := []int{500, 2000, 5000}
	workerCounts := []int{1, 4, 0}

	for _, count := range particleCounts {
		for _, workers := range workerCounts {
			b.Run(fmt.Sprintf("Particles-%d-Workers-%d", count, workers), func(b *testing.B) {
				sim, err := New(count, benchWidth, benchHeight,
					WithLogger(quietLogger), WithSeed(42), WithWorkers(workers))
				if err != nil {
					b.Fatal(err)
				}
				defer sim.Close()
				if placed := sim.SeedDamBreak(count); placed != count {
					b.Fatalf("placed %d of %d particles", placed, count)
				}

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					sim.Step()
				}
			})
		}
	}
}

// Benchmark a full run: seed a dam break, then advance a fixed number of ticks.
func BenchmarkSimulation(b *testing.B) {
	const (
		particles = 2000
		ticks     = 20
	)

	for i := 0; i < b.N; i++ {
		sim, err := New(particles, benchWidth, benchHeight, WithLogger(quietLogger), WithSeed(int64(i)))
		if err != nil {
			b.Fatal(err)
		}
		sim.SeedDamBreak(particles)
		for t := 0; t < ticks; t++ {
			sim.Step()
		}
		sim.Close()
	}
}
