package sph

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// Simulation owns a particle store and advances it tick by tick.
//
// All methods are safe for concurrent use. Seeding and clearing are serialized with
// Step, so they always land between ticks.
type Simulation struct {
	mu sync.Mutex

	params  Params
	kernels Kernels
	bounds  bounds

	store *Store
	pool  *workerPool

	rng      *rand.Rand
	jitter   bool
	validate bool
	report   NumericReport
	warned   bool
	logger   *slog.Logger
	observer func(phase string)

	tick int64

	densityPass   passFunc
	forcePass     passFunc
	integratePass passFunc
}

// New creates an empty simulation over the domain [0, width] × [0, height].
func New(maxParticles int, width, height float32, opts ...Option) (*Simulation, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if maxParticles <= 0 {
		return nil, fmt.Errorf("%w: max particles must be positive, got %d", ErrInvalidConfig, maxParticles)
	}
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("%w: domain must have positive size, got %vx%v", ErrInvalidConfig, width, height)
	}
	if err := cfg.params.Validate(); err != nil {
		return nil, err
	}

	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Simulation{
		params:  cfg.params,
		kernels: NewKernels(cfg.params.SmoothingRadius),
		bounds: bounds{
			width:  width,
			height: height,
			eps:    cfg.params.Eps(),
		},
		store:    NewStore(maxParticles),
		pool:     newWorkerPool(cfg.workers),
		rng:      cfg.rng,
		jitter:   cfg.jitter,
		validate: cfg.validate,
		report:   NumericReport{FirstIndex: -1},
		logger:   cfg.logger,
		observer: cfg.observer,
	}

	s.densityPass = func(start, end int) {
		computeDensityPressure(s.store, &s.params, &s.kernels, start, end)
	}
	s.forcePass = func(start, end int) {
		computeForces(s.store, &s.params, &s.kernels, start, end)
	}
	s.integratePass = func(start, end int) {
		integrate(s.store, &s.params, s.bounds, start, end)
	}

	return s, nil
}

// Close stops the worker goroutines. The simulation may still be stepped afterwards;
// workers are restarted on demand.
func (s *Simulation) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.stop()
}

// Step advances exactly one tick: density/pressure, then forces, then integration.
// Each pass completes for every particle before the next begins.
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.store.Len()

	s.enterPhase(PhaseDensity)
	s.pool.run(n, s.densityPass)

	s.enterPhase(PhaseForces)
	s.pool.run(n, s.forcePass)

	s.enterPhase(PhaseIntegrate)
	s.pool.run(n, s.integratePass)

	s.store.swap()
	s.tick++

	if s.validate {
		s.checkNumeric()
	}
}

func (s *Simulation) enterPhase(phase string) {
	if s.observer != nil {
		s.observer(phase)
	}
}

func (s *Simulation) checkNumeric() {
	s.report = scanNumeric(s.store, s.tick)
	if !s.report.Degenerate() {
		s.warned = false
		return
	}
	if !s.warned {
		s.logger.Warn("non-finite particle state", "report", s.report)
		s.warned = true
	}
}

// SeedDamBreak fills the left part of the domain with up to requested particles.
// It returns how many were placed, which is less than requested when capacity runs out.
func (s *Simulation) SeedDamBreak(requested int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	jitter := func() float32 { return 0 }
	if s.jitter {
		jitter = s.rng.Float32
	}

	placed := 0
	damBreak(s.bounds, s.params.SmoothingRadius, jitter, s.placer(requested, &placed))
	s.logSeeding("dam break", requested, placed)
	return placed
}

// SeedBlock drops a square block of up to requested particles near the domain centre.
// It returns how many were placed.
func (s *Simulation) SeedBlock(requested int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := 0
	block(s.bounds, s.params.SmoothingRadius, s.placer(requested, &placed))
	s.logSeeding("block", requested, placed)
	return placed
}

func (s *Simulation) placer(requested int, placed *int) placeFunc {
	return func(x, y float32) bool {
		if *placed >= requested {
			return false
		}
		if !s.store.Push(x, y) {
			return false
		}
		*placed++
		return true
	}
}

func (s *Simulation) logSeeding(kind string, requested, placed int) {
	if placed < requested && s.store.Full() {
		s.logger.Debug("seeding capped by capacity",
			"kind", kind,
			"requested", requested,
			"placed", placed,
			"capacity", s.store.Cap(),
		)
	}
	s.logger.Info("seeded particles",
		"kind", kind,
		"placed", placed,
		"total", s.store.Len(),
	)
}

// Clear removes every particle. Capacity, domain and parameters are unchanged.
func (s *Simulation) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
	s.report = NumericReport{Tick: s.tick, FirstIndex: -1}
	s.warned = false
}

// Positions returns a copy of the current particle positions in storage order.
func (s *Simulation) Positions() []Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.AppendPositions(make([]Vec2, 0, s.store.Len()))
}

// Snapshot is a read-only copy of per-particle state, used for rendering and telemetry.
type Snapshot struct {
	Tick       int64
	PosX, PosY []float32
	VelX, VelY []float32
	Density    []float32
	Pressure   []float32
}

// Len returns the number of particles in the snapshot.
func (sn *Snapshot) Len() int { return len(sn.PosX) }

// SnapshotInto copies the current state into dst, reusing its slices.
func (s *Simulation) SnapshotInto(dst *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst.Tick = s.tick
	dst.PosX = append(dst.PosX[:0], s.store.front.PosX...)
	dst.PosY = append(dst.PosY[:0], s.store.front.PosY...)
	dst.VelX = append(dst.VelX[:0], s.store.front.VelX...)
	dst.VelY = append(dst.VelY[:0], s.store.front.VelY...)
	dst.Density = append(dst.Density[:0], s.store.Density...)
	dst.Pressure = append(dst.Pressure[:0], s.store.Pressure...)
}

// Len returns the current particle count.
func (s *Simulation) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// Cap returns the particle capacity.
func (s *Simulation) Cap() int {
	return s.store.Cap()
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Params returns the physical constants.
func (s *Simulation) Params() Params {
	return s.params
}

// Domain returns the domain size.
func (s *Simulation) Domain() (width, height float32) {
	return s.bounds.width, s.bounds.height
}

// LastReport returns the numeric report from the most recent validated tick.
// It is the zero report (FirstIndex -1) when validation is disabled.
func (s *Simulation) LastReport() NumericReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}
