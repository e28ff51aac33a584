package sph

import "log/slog"

// NumericReport counts non-finite values found in the store after a tick.
// Values are reported, never corrected.
type NumericReport struct {
	Tick       int64
	Density    int
	Pressure   int
	Force      int
	Velocity   int
	Position   int
	FirstIndex int // lowest particle index with any non-finite field, -1 if none
}

// Degenerate reports whether any non-finite value was found.
func (r NumericReport) Degenerate() bool {
	return r.FirstIndex >= 0
}

// Total returns the number of non-finite fields found.
func (r NumericReport) Total() int {
	return r.Density + r.Pressure + r.Force + r.Velocity + r.Position
}

// LogValue implements slog.LogValuer for structured logging.
func (r NumericReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", r.Tick),
		slog.Int("density", r.Density),
		slog.Int("pressure", r.Pressure),
		slog.Int("force", r.Force),
		slog.Int("velocity", r.Velocity),
		slog.Int("position", r.Position),
		slog.Int("first_index", r.FirstIndex),
	)
}

// scanNumeric inspects every derived and kinematic field of s.
func scanNumeric(s *Store, tick int64) NumericReport {
	r := NumericReport{Tick: tick, FirstIndex: -1}
	mark := func(i int) {
		if r.FirstIndex < 0 || i < r.FirstIndex {
			r.FirstIndex = i
		}
	}
	for i := 0; i < s.Len(); i++ {
		if !isFinite(s.Density[i]) {
			r.Density++
			mark(i)
		}
		if !isFinite(s.Pressure[i]) {
			r.Pressure++
			mark(i)
		}
		if !isFinite(s.ForceX[i]) || !isFinite(s.ForceY[i]) {
			r.Force++
			mark(i)
		}
		if !isFinite(s.front.VelX[i]) || !isFinite(s.front.VelY[i]) {
			r.Velocity++
			mark(i)
		}
		if !isFinite(s.front.PosX[i]) || !isFinite(s.front.PosY[i]) {
			r.Position++
			mark(i)
		}
	}
	return r
}
