package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/telemetry"
)

func init() {
	config.MustInit("")
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameSeedsDamBreak(t *testing.T) {
	g := newHeadless(t, Options{Seed: 1, DamParticles: 200})

	if n := g.Simulation().Len(); n != 200 {
		t.Errorf("particles after init = %d, want 200", n)
	}
	if g.Tick() != 0 {
		t.Errorf("tick = %d, want 0", g.Tick())
	}
}

func TestUpdateHeadlessAdvancesSteps(t *testing.T) {
	g := newHeadless(t, Options{Seed: 1, DamParticles: 100, StepsPerUpdate: 5})

	g.UpdateHeadless()
	g.UpdateHeadless()

	if g.Tick() != 10 {
		t.Errorf("tick = %d, want 10", g.Tick())
	}
}

func TestRequestsApplyBeforeNextTick(t *testing.T) {
	g := newHeadless(t, Options{Seed: 1, DamParticles: 100, StepsPerUpdate: 1})
	cfg := config.Cfg()

	g.RequestBlock()
	if n := g.Simulation().Len(); n != 100 {
		t.Fatalf("block applied before tick: %d particles", n)
	}

	g.UpdateHeadless()
	if n := g.Simulation().Len(); n <= 100 || n > 100+cfg.Particles.Block {
		t.Errorf("particles after block = %d, want in (100, %d]", n, 100+cfg.Particles.Block)
	}

	g.RequestReset()
	g.UpdateHeadless()
	if n := g.Simulation().Len(); n != 100 {
		t.Errorf("particles after reset = %d, want 100", n)
	}
}

func TestBlockShortfallWithFreeCapacityNotRefused(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Particles.Block = 400 // more than the block lattice holds

	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		Seed:           1,
		DamParticles:   100,
		StepsPerUpdate: 10,
		StatsWindowSec: 0.007,
		Config:         &cfg,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	g.RequestBlock()
	g.UpdateHeadless()

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if w.Blocks != 1 || w.ParticlesPlaced <= 100 || w.ParticlesPlaced >= 500 {
		t.Errorf("unexpected placement counts: %+v", w)
	}
	if w.ParticlesRefused != 0 {
		t.Errorf("ParticlesRefused = %d, want 0 with %d free slots", w.ParticlesRefused, w.Capacity-w.Particles)
	}
}

func TestStatsCallbackPerWindow(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		Seed:           1,
		DamParticles:   100,
		StepsPerUpdate: 10,
		StatsWindowSec: 0.007, // 10 ticks at the default timestep
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
	}

	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	first := windows[0]
	if first.Particles != 100 || first.DamBreaks != 1 || first.Clears != 1 {
		t.Errorf("first window counts: %+v", first)
	}
	if first.DensityMean <= 0 {
		t.Errorf("density mean should be positive, got %v", first.DensityMean)
	}
	if windows[1].DamBreaks != 0 {
		t.Error("event counters should reset between windows")
	}
	if g.LastStats().WindowEndTick != windows[2].WindowEndTick {
		t.Error("LastStats should return the latest window")
	}
}

func TestOutputDirWritesFiles(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{
		Seed:           1,
		DamParticles:   50,
		StepsPerUpdate: 10,
		StatsWindowSec: 0.007,
		OutputDir:      dir,
	})

	g.UpdateHeadless()
	g.UpdateHeadless()
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2 rows", len(lines))
	}
	for _, name := range []string{"perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}
