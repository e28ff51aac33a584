package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// State at window end
	Particles int `csv:"particles"`
	Capacity  int `csv:"capacity"`

	// Events during window
	DamBreaks        int `csv:"dam_breaks"`
	Blocks           int `csv:"blocks"`
	ParticlesPlaced  int `csv:"placed"`
	ParticlesRefused int `csv:"refused"`
	Clears           int `csv:"clears"`
	DegenerateTicks  int `csv:"degenerate_ticks"`

	// Density distribution (sampled at window end)
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	DensityErr  float64 `csv:"density_err"` // (mean - rest) / rest

	PressureMean float64 `csv:"pressure_mean"`

	// Motion
	KineticEnergy float64 `csv:"kinetic_energy"`
	MaxSpeed      float64 `csv:"max_speed"`

	// Count of non-finite values in the sampled state
	NonFinite int `csv:"non_finite"`
}

// Percentile returns the p-th quantile of a sorted slice using gonum's
// linear interpolation of the empirical distribution. p is clamped to [0, 1].
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.LinInterp, sorted, nil)
}

// ComputeDistribution calculates mean, population std, and percentiles.
// values is sorted in place.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sort.Float64s(values)
	p10 = Percentile(values, 0.10)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)

	return mean, std, p10, p50, p90
}

// MaxOrZero returns the largest value, or 0 for an empty slice.
func MaxOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("capacity", s.Capacity),
		slog.Int("dam_breaks", s.DamBreaks),
		slog.Int("blocks", s.Blocks),
		slog.Int("placed", s.ParticlesPlaced),
		slog.Int("refused", s.ParticlesRefused),
		slog.Int("clears", s.Clears),
		slog.Int("degenerate_ticks", s.DegenerateTicks),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("density_err", s.DensityErr),
		slog.Float64("pressure_mean", s.PressureMean),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Int("non_finite", s.NonFinite),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"placed", s.ParticlesPlaced,
		"refused", s.ParticlesRefused,
		"clears", s.Clears,
		"density_mean", s.DensityMean,
		"density_std", s.DensityStd,
		"density_p10", s.DensityP10,
		"density_p50", s.DensityP50,
		"density_p90", s.DensityP90,
		"density_err", s.DensityErr,
		"pressure_mean", s.PressureMean,
		"kinetic_energy", s.KineticEnergy,
		"max_speed", s.MaxSpeed,
		"non_finite", s.NonFinite,
		"degenerate_ticks", s.DegenerateTicks,
	)
}
