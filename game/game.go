// Package game runs the fluid simulation interactively or headless and
// feeds telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/sph"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// maxStepsPerFrame bounds the viewer speed control.
const maxStepsPerFrame = 20

// Options configures game initialization.
type Options struct {
	Seed     int64
	LogStats bool // Log window and perf stats via slog

	// StatsWindowSec is the stats window in simulation seconds (0 = config).
	StatsWindowSec float64
	// OutputDir receives CSV output (empty = disabled).
	OutputDir string
	// Headless skips all raylib setup.
	Headless bool
	// StepsPerUpdate is ticks per Update/UpdateHeadless call (0 = config).
	StepsPerUpdate int
	// DamParticles is the dam-break size for resets (0 = config).
	DamParticles int
	// StatsCallback is called after every flushed window.
	StatsCallback func(stats telemetry.WindowStats)
	// Config overrides the global config (used by the tuner to run
	// several configurations side by side).
	Config *config.Config
}

// Game holds the simulation and everything that observes it.
type Game struct {
	sim     *sph.Simulation
	rngSeed int64
	params  sph.Params

	// Domain and window dimensions
	worldWidth, worldHeight   float32
	screenWidth, screenHeight float32

	// State
	paused         bool
	stepsPerUpdate int
	damParticles   int
	blockParticles int

	// Spawn requests raised by input, applied at the start of the next tick
	pendingReset  bool
	pendingBlocks int
	pendingStep   bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
	degenerate       bool

	// Scratch copy of particle state shared by telemetry and drawing
	snapshot sph.Snapshot

	// Rendering (nil when headless)
	headless         bool
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	hud              *ui.HUD
	perfPanel        *ui.PerfPanel
	statsPanel       *ui.StatsPanel
	controls         *ui.ControlPanel
}

// NewGameWithOptions creates a game from opts and the config (global unless
// opts.Config is set). The initial dam-break is seeded before it returns.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = cfg.Render.StepsPerFrame
	}
	if !opts.Headless {
		steps = clampInt(steps, 1, maxStepsPerFrame)
	}
	damParticles := opts.DamParticles
	if damParticles <= 0 {
		damParticles = cfg.Particles.DamBreak
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		rngSeed:        opts.Seed,
		params:         cfg.SimParams(),
		worldWidth:     cfg.Derived.WorldW32,
		worldHeight:    cfg.Derived.WorldH32,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
		stepsPerUpdate: steps,
		damParticles:   damParticles,
		blockParticles: cfg.Particles.Block,
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		headless:       opts.Headless,

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
	}

	simOpts := append(cfg.SimOptions(),
		sph.WithRand(rand.New(rand.NewSource(opts.Seed))),
		sph.WithPhaseObserver(g.perfCollector.StartPhase),
	)
	sim, err := sph.New(cfg.Particles.Max, g.worldWidth, g.worldHeight, simOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	g.sim = sim

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		sim.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !g.headless {
		g.initRendering(cfg)
	}

	g.reset()

	return g, nil
}

func (g *Game) initRendering(cfg *config.Config) {
	g.camera = camera.New(g.screenWidth, g.screenHeight, g.worldWidth, g.worldHeight)
	g.particleRenderer = renderer.NewParticleRenderer(
		float32(cfg.Render.PointSize),
		g.params.RestDensity,
		float32(cfg.Render.DensityColorMax),
	)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 105)
	g.statsPanel = ui.NewStatsPanel(int32(g.screenWidth)-250, 10, 240)
	g.controls = ui.NewControlPanel(int32(g.screenWidth)-250, 200, 240)
}

// reset clears the store and seeds a fresh dam-break.
func (g *Game) reset() {
	g.sim.Clear()
	g.collector.RecordClear()
	g.bookmarkDetector.Reset()
	g.degenerate = false

	placed := g.sim.SeedDamBreak(g.damParticles)
	g.collector.RecordDamBreak(g.damParticles, placed, g.storeFull())
}

// spawnBlock drops a block of particles into the running simulation.
func (g *Game) spawnBlock() {
	placed := g.sim.SeedBlock(g.blockParticles)
	g.collector.RecordBlock(g.blockParticles, placed, g.storeFull())
}

func (g *Game) storeFull() bool {
	return g.sim.Len() == g.sim.Cap()
}

// RequestReset schedules a clear and reseed before the next tick.
func (g *Game) RequestReset() {
	g.pendingReset = true
}

// RequestBlock schedules a block spawn before the next tick.
func (g *Game) RequestBlock() {
	g.pendingBlocks++
}

// Update runs one frame of the interactive simulation.
func (g *Game) Update() {
	g.handleInput()

	steps := g.stepsPerUpdate
	if g.paused {
		steps = 0
		if g.pendingStep {
			steps = 1
		}
	}
	g.pendingStep = false

	for i := 0; i < steps; i++ {
		g.simulationStep()
	}
	// Requests made while paused still take effect immediately.
	if steps == 0 {
		g.applyRequests()
	}
}

// UpdateHeadless runs StepsPerUpdate ticks without rendering or input.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// applyRequests performs queued seeding between ticks.
func (g *Game) applyRequests() {
	if !g.pendingReset && g.pendingBlocks == 0 {
		return
	}
	if g.pendingReset {
		g.reset()
		g.pendingReset = false
	}
	for ; g.pendingBlocks > 0; g.pendingBlocks-- {
		g.spawnBlock()
	}
}

// simulationStep runs a single tick.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSeeding)
	g.applyRequests()

	g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if r := g.sim.LastReport(); r.Degenerate() && r.Tick == g.sim.Tick() {
		g.collector.RecordDegenerateTick()
		g.degenerate = true
	}
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.sim.Tick()
}

// Simulation exposes the underlying simulation.
func (g *Game) Simulation() *sph.Simulation {
	return g.sim
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// Unload stops workers and closes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	g.sim.Close()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
