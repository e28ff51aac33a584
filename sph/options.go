package sph

import (
	"log/slog"
	"math/rand"
)

// Phase names reported to a phase observer.
const (
	PhaseDensity   = "density"
	PhaseForces    = "forces"
	PhaseIntegrate = "integrate"
)

type settings struct {
	params   Params
	workers  int
	rng      *rand.Rand
	jitter   bool
	validate bool
	logger   *slog.Logger
	observer func(phase string)
}

func defaultSettings() settings {
	return settings{
		params: DefaultParams(),
		jitter: true,
	}
}

// Option configures a Simulation at construction.
type Option func(*settings)

// WithParams replaces every physical constant at once.
func WithParams(p Params) Option {
	return func(s *settings) { s.params = p }
}

// WithSmoothingRadius sets H.
func WithSmoothingRadius(h float32) Option {
	return func(s *settings) { s.params.SmoothingRadius = h }
}

// WithRestDensity sets the density at which pressure is zero.
func WithRestDensity(rho float32) Option {
	return func(s *settings) { s.params.RestDensity = rho }
}

// WithGasConstant sets the equation-of-state stiffness.
func WithGasConstant(k float32) Option {
	return func(s *settings) { s.params.GasConstant = k }
}

// WithMass sets the per-particle mass.
func WithMass(m float32) Option {
	return func(s *settings) { s.params.Mass = m }
}

// WithViscosity sets the viscosity coefficient.
func WithViscosity(mu float32) Option {
	return func(s *settings) { s.params.Viscosity = mu }
}

// WithTimestep sets the integration step.
func WithTimestep(dt float32) Option {
	return func(s *settings) { s.params.Timestep = dt }
}

// WithBoundDamping sets the velocity multiplier applied on wall contact.
func WithBoundDamping(d float32) Option {
	return func(s *settings) { s.params.BoundDamping = d }
}

// WithGravity sets the gravitational acceleration.
func WithGravity(g Vec2) Option {
	return func(s *settings) { s.params.Gravity = g }
}

// WithWorkers sets the worker goroutine count. Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithRand sets the random source for dam-break jitter.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) { s.rng = rng }
}

// WithSeed seeds a private random source for dam-break jitter.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithJitter enables or disables dam-break jitter. It is enabled by default.
func WithJitter(enabled bool) Option {
	return func(s *settings) { s.jitter = enabled }
}

// WithValidation scans for non-finite values after every tick.
func WithValidation(enabled bool) Option {
	return func(s *settings) { s.validate = enabled }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithPhaseObserver registers fn to be called on the stepping goroutine as each pass
// begins. It is used for per-pass timing.
func WithPhaseObserver(fn func(phase string)) Option {
	return func(s *settings) { s.observer = fn }
}
