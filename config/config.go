// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sph/sph"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Seeding    SeedingConfig    `yaml:"seeding"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Validation ValidationConfig `yaml:"validation"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation domain settings.
// The domain is larger than the screen; the camera scales it to fit.
type WorldConfig struct {
	ViewScale float64 `yaml:"view_scale"` // Domain size = screen size * this
}

// PhysicsConfig holds the SPH constants.
type PhysicsConfig struct {
	SmoothingRadius float64    `yaml:"smoothing_radius"`
	RestDensity     float64    `yaml:"rest_density"`
	GasConstant     float64    `yaml:"gas_constant"`
	Mass            float64    `yaml:"mass"`
	Viscosity       float64    `yaml:"viscosity"`
	DT              float64    `yaml:"dt"`
	BoundDamping    float64    `yaml:"bound_damping"`
	Gravity         [2]float64 `yaml:"gravity"`
}

// ParticlesConfig holds capacity and seeding counts.
type ParticlesConfig struct {
	Max      int `yaml:"max"`       // Hard particle capacity
	DamBreak int `yaml:"dam_break"` // Particles requested by a dam-break reset
	Block    int `yaml:"block"`     // Particles requested per spawned block
}

// SeedingConfig holds initial placement options.
type SeedingConfig struct {
	Jitter bool `yaml:"jitter"` // Horizontal sub-cell jitter for dam-break
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// ValidationConfig holds numeric validation settings.
type ValidationConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RenderConfig holds viewer settings.
type RenderConfig struct {
	PointSize       float64 `yaml:"point_size"`
	DensityColorMax float64 `yaml:"density_color_max"`
	StepsPerFrame   int     `yaml:"steps_per_frame"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Domain width
	WorldH32  float32 // Domain height
	Eps32     float32 // Wall margin (equals the smoothing radius)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values that cannot produce a runnable simulation.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen: width and height must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if !(c.World.ViewScale > 0) {
		return fmt.Errorf("world: view_scale must be positive, got %v", c.World.ViewScale)
	}
	if c.Particles.Max <= 0 {
		return fmt.Errorf("particles: max must be positive, got %d", c.Particles.Max)
	}
	if c.Particles.DamBreak < 0 || c.Particles.Block < 0 {
		return fmt.Errorf("particles: seeding counts must not be negative")
	}
	if err := c.SimParams().Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.WorldW32 = float32(float64(c.Screen.Width) * c.World.ViewScale)
	c.Derived.WorldH32 = float32(float64(c.Screen.Height) * c.World.ViewScale)
	c.Derived.Eps32 = float32(c.Physics.SmoothingRadius)

	if c.Render.StepsPerFrame < 1 {
		c.Render.StepsPerFrame = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}
}

// SimParams converts the physics section into kernel parameters.
func (c *Config) SimParams() sph.Params {
	p := c.Physics
	return sph.Params{
		SmoothingRadius: float32(p.SmoothingRadius),
		RestDensity:     float32(p.RestDensity),
		GasConstant:     float32(p.GasConstant),
		Mass:            float32(p.Mass),
		Viscosity:       float32(p.Viscosity),
		Timestep:        float32(p.DT),
		BoundDamping:    float32(p.BoundDamping),
		Gravity:         sph.Vec2{X: float32(p.Gravity[0]), Y: float32(p.Gravity[1])},
	}
}

// SimOptions returns the construction options for a simulation built from this config.
func (c *Config) SimOptions() []sph.Option {
	return []sph.Option{
		sph.WithParams(c.SimParams()),
		sph.WithWorkers(c.Parallel.Workers),
		sph.WithJitter(c.Seeding.Jitter),
		sph.WithValidation(c.Validation.Enabled),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
