package main

import (
	"math"
	"runtime"
	"sync"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/telemetry"
)

// Fitness weights and penalties.
const (
	settleFraction    = 0.5  // score only the last half of the windows
	speedWeight       = 0.01 // per unit of mean max speed in settled windows
	degeneratePenalty = 10.0 // added once when any window saw non-finite state
	failedRunPenalty  = 100.0
)

// FitnessEvaluator runs headless dam-breaks and scores how close the settled
// fluid stays to rest density.
type FitnessEvaluator struct {
	params       *ParamVector
	maxTicks     int64
	seeds        []int64
	baseConfig   *config.Config
	damParticles int
	statsWindow  float64

	mu          sync.Mutex
	lastSummary RunSummary
}

// RunSummary holds the aggregate numbers behind one fitness value.
type RunSummary struct {
	DensityErr float64 // mean absolute density error over settled windows
	MaxSpeed   float64 // mean max speed over settled windows
	NonFinite  bool
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config, damParticles int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:       params,
		maxTicks:     maxTicks,
		seeds:        seeds,
		baseConfig:   baseCfg,
		damParticles: damParticles,
		statsWindow:  0.07,
	}
}

// LastSummary returns the averaged summary from the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Share the cores between concurrently running seeds.
	workers := runtime.GOMAXPROCS(0) / len(fe.seeds)
	if workers < 1 {
		workers = 1
	}
	cfg.Parallel.Workers = workers

	fitness := make([]float64, len(fe.seeds))
	summaries := make([]RunSummary, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(cfg, s)
			if err != nil {
				fitness[idx] = failedRunPenalty
				summaries[idx] = RunSummary{NonFinite: true}
				return
			}
			fitness[idx], summaries[idx] = computeFitness(windows)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	var avg RunSummary
	for i := range fitness {
		total += fitness[i]
		avg.DensityErr += summaries[i].DensityErr
		avg.MaxSpeed += summaries[i].MaxSpeed
		avg.NonFinite = avg.NonFinite || summaries[i].NonFinite
	}
	n := float64(len(fe.seeds))
	avg.DensityErr /= n
	avg.MaxSpeed /= n

	fe.mu.Lock()
	fe.lastSummary = avg
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) ([]telemetry.WindowStats, error) {
	var windows []telemetry.WindowStats

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 100,
		DamParticles:   fe.damParticles,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		// Blown-up runs only get worse; stop early.
		if n := len(windows); n > 0 && windows[n-1].NonFinite > 0 {
			break
		}
	}
	return windows, nil
}

// copyConfig creates a copy of the base config. Config holds only value
// fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness scores a run from its windows (lower = better):
// mean |density error| over the settled tail, plus a small speed term so
// configs that never stop sloshing lose ties, plus a penalty for non-finite state.
func computeFitness(windows []telemetry.WindowStats) (float64, RunSummary) {
	if len(windows) == 0 {
		return failedRunPenalty, RunSummary{NonFinite: true}
	}

	var s RunSummary
	for _, w := range windows {
		if w.NonFinite > 0 || w.DegenerateTicks > 0 {
			s.NonFinite = true
		}
	}

	start := int(float64(len(windows)) * (1 - settleFraction))
	if start >= len(windows) {
		start = len(windows) - 1
	}
	settled := windows[start:]
	for _, w := range settled {
		s.DensityErr += math.Abs(w.DensityErr)
		s.MaxSpeed += w.MaxSpeed
	}
	s.DensityErr /= float64(len(settled))
	s.MaxSpeed /= float64(len(settled))

	fitness := s.DensityErr + speedWeight*s.MaxSpeed
	if s.NonFinite {
		fitness += degeneratePenalty
	}
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		fitness = failedRunPenalty
	}
	return fitness, s
}
