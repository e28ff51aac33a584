package telemetry

import (
	"testing"
	"time"
)

// runTicks records n ticks where each named phase sleeps for its duration.
func runTicks(pc *PerfCollector, n int, phases []string, sleeps []time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for j, name := range phases {
			pc.StartPhase(name)
			if sleeps[j] > 0 {
				time.Sleep(sleeps[j])
			}
		}
		pc.EndTick()
	}
}

func TestPerfCollector_TracksKernelPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 4,
		[]string{PhaseDensity, PhaseForces, PhaseIntegrate},
		[]time.Duration{100 * time.Microsecond, 200 * time.Microsecond, 0},
	)

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Fatal("expected positive average tick duration")
	}
	for _, phase := range []string{PhaseDensity, PhaseForces} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %q not tracked", phase)
		}
	}
	if stats.MinTickDuration > stats.P95TickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("expected min <= p95 <= max, got %v %v %v",
			stats.MinTickDuration, stats.P95TickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_ForcesDominatesDensity(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5,
		[]string{PhaseDensity, PhaseForces},
		[]time.Duration{10 * time.Microsecond, 2 * time.Millisecond},
	)

	stats := pc.Stats()
	if stats.PhasePct[PhaseForces] <= stats.PhasePct[PhaseDensity] {
		t.Errorf("forces %.1f%% should exceed density %.1f%%",
			stats.PhasePct[PhaseForces], stats.PhasePct[PhaseDensity])
	}
	if stats.PhasePct[PhaseForces] > 100 {
		t.Errorf("phase share above 100%%: %.1f", stats.PhasePct[PhaseForces])
	}
}

func TestPerfCollector_UnknownPhaseIgnored(t *testing.T) {
	pc := NewPerfCollector(4)
	runTicks(pc, 2, []string{"rebuild", PhaseIntegrate}, []time.Duration{50 * time.Microsecond, 0})

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["rebuild"]; ok {
		t.Error("unknown phase should not appear in the breakdown")
	}
	if stats.AvgTickDuration < 50*time.Microsecond {
		t.Errorf("tick total should include untracked time, got %v", stats.AvgTickDuration)
	}
}

func TestPerfCollector_WindowWraps(t *testing.T) {
	pc := NewPerfCollector(3)
	runTicks(pc, 3, []string{PhaseSeeding}, []time.Duration{2 * time.Millisecond})
	runTicks(pc, 3, []string{PhaseDensity}, []time.Duration{0})

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg[PhaseSeeding]; ok {
		t.Error("old ticks should have been overwritten")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.P95TickDuration != 0 {
		t.Error("expected zero durations for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] for a 16ms frame, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		P95TickDuration: 3 * time.Millisecond,
		PhasePct: map[string]float64{
			PhaseDensity:   30,
			PhaseForces:    60,
			PhaseIntegrate: 10,
		},
	}

	row := stats.ToCSV(420)

	if row.WindowEnd != 420 {
		t.Errorf("window_end = %d, want 420", row.WindowEnd)
	}
	if row.AvgTickUS != 2000 || row.P95TickUS != 3000 {
		t.Errorf("unexpected tick columns: %+v", row)
	}
	if row.ForcesPct != 60 || row.DensityPct != 30 || row.IntegratePct != 10 {
		t.Errorf("unexpected phase percentages: %+v", row)
	}
}
