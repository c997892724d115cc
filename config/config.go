// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ggielly/suicideballs/vmath"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Ball       BallConfig       `yaml:"ball"`
	Population PopulationConfig `yaml:"population"`
	Controls   ControlsConfig   `yaml:"controls"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Audio      AudioConfig      `yaml:"audio"`
	Terminal   TerminalConfig   `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. Width includes the HUD panel;
// the physics only ever sees Arena.SimWidth/SimHeight.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the rotating ring geometry.
type ArenaConfig struct {
	SimWidth      int     `yaml:"sim_width"`      // Physics area width (screen minus HUD)
	SimHeight     int     `yaml:"sim_height"`     // Physics area height
	Radius        float64 `yaml:"radius"`         // Ring radius
	Thickness     float64 `yaml:"thickness"`      // Visual ring thickness (not used by physics)
	RotationSpeed float64 `yaml:"rotation_speed"` // Gap rotation in radians per tick
	GapAngle      float64 `yaml:"gap_angle"`      // Angular width of the opening in radians
}

// PhysicsConfig holds simulation physics parameters.
// Gravity and velocities are per-tick quantities.
type PhysicsConfig struct {
	DT                  float64 `yaml:"dt"`
	VerticalGravity     float64 `yaml:"vertical_gravity"`
	CentripetalGravity  float64 `yaml:"centripetal_gravity"`
	MaxVelocity         float64 `yaml:"max_velocity"`
	GridCellSize        float64 `yaml:"grid_cell_size"`
	Friction            float64 `yaml:"friction"`              // Velocity damping per tick
	AngularFriction     float64 `yaml:"angular_friction"`      // Spin damping per tick
	WallSpinTransfer    float64 `yaml:"wall_spin_transfer"`    // Tangential wall velocity -> spin
	ContactSpinTransfer float64 `yaml:"contact_spin_transfer"` // Tangential contact velocity -> spin
	Gravity             string  `yaml:"gravity"`               // Initial mode: vertical | centripetal
}

// BallConfig holds per-ball creation parameters.
type BallConfig struct {
	Radius        float64 `yaml:"radius"`
	SpawnMargin   float64 `yaml:"spawn_margin"`   // Keep-out distance from the wall when spawning
	SpawnSpeed    float64 `yaml:"spawn_speed"`    // Initial velocity components in [-s, s)
	TrailCapacity int     `yaml:"trail_capacity"` // Positions kept for the motion trail
	ColorMin      int     `yaml:"color_min"`      // Inclusive lower bound of each RGB channel
	ColorMax      int     `yaml:"color_max"`      // Exclusive upper bound of each RGB channel
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	MaxBalls     int     `yaml:"max_balls"`
	EscapeMargin float64 `yaml:"escape_margin"`  // Distance past the ring before a ball is removed
	BallsToSpawn int     `yaml:"balls_to_spawn"` // Replacements per escaped ball
}

// ControlsConfig holds the ranges for externally adjusted parameters.
type ControlsConfig struct {
	Bounciness     float64 `yaml:"bounciness"`
	BouncinessMin  float64 `yaml:"bounciness_min"`
	BouncinessMax  float64 `yaml:"bounciness_max"`
	BouncinessStep float64 `yaml:"bounciness_step"`
	MaxSpeed       int     `yaml:"max_speed"` // Max simulation speed multiplier
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	FrameWindow         int     `yaml:"frame_window"` // Frame durations averaged for FPS
}

// AudioConfig holds collision sound parameters.
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	SampleRate    int     `yaml:"sample_rate"`
	WallFreq      float64 `yaml:"wall_freq"`
	BallFreq      float64 `yaml:"ball_freq"`
	ClickMs       int     `yaml:"click_ms"`
	MinIntervalMs int     `yaml:"min_interval_ms"`
}

// TerminalConfig holds terminal viewer parameters.
type TerminalConfig struct {
	FrameMs     int     `yaml:"frame_ms"`
	CellAspect  float64 `yaml:"cell_aspect"` // Terminal cell height / width
	TrailStride int     `yaml:"trail_stride"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32    // Physics.DT as float32
	SimW32    float32    // Arena.SimWidth as float32
	SimH32    float32    // Arena.SimHeight as float32
	Center    vmath.Vec2 // Arena center in sim coordinates
	HUDWidth  int        // Screen.Width - Arena.SimWidth
	EscapeSq  float32    // (radius + escape margin)^2
	SpawnDist float32    // Max spawn distance from center
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
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Validation errors.
var (
	ErrCellSize    = errors.New("physics.grid_cell_size must be > 0")
	ErrMaxVelocity = errors.New("physics.max_velocity must be > 0")
	ErrMaxBalls    = errors.New("population.max_balls must be >= 1")
	ErrBallRadius  = errors.New("ball.radius must be > 0")
	ErrSpawnArea   = errors.New("arena.radius must exceed ball.radius + ball.spawn_margin")
	ErrTrail       = errors.New("ball.trail_capacity must be >= 1")
	ErrBounciness  = errors.New("controls.bounciness_min must not exceed controls.bounciness_max")
	ErrSimArea     = errors.New("arena.sim_width and arena.sim_height must be > 0")
	ErrGravity     = errors.New("physics.gravity must be vertical or centripetal")
	ErrColorRange  = errors.New("ball.color_min must be < ball.color_max <= 256")
)

// Validate checks the invariants the simulation core relies on.
// The core never re-checks these.
func (c *Config) Validate() error {
	var errs []error
	if c.Physics.GridCellSize <= 0 {
		errs = append(errs, ErrCellSize)
	}
	if c.Physics.MaxVelocity <= 0 {
		errs = append(errs, ErrMaxVelocity)
	}
	if c.Population.MaxBalls < 1 {
		errs = append(errs, ErrMaxBalls)
	}
	if c.Ball.Radius <= 0 {
		errs = append(errs, ErrBallRadius)
	}
	if c.Arena.Radius-c.Ball.Radius-c.Ball.SpawnMargin <= 0 {
		errs = append(errs, ErrSpawnArea)
	}
	if c.Ball.TrailCapacity < 1 {
		errs = append(errs, ErrTrail)
	}
	if c.Controls.BouncinessMin > c.Controls.BouncinessMax {
		errs = append(errs, ErrBounciness)
	}
	if c.Arena.SimWidth <= 0 || c.Arena.SimHeight <= 0 {
		errs = append(errs, ErrSimArea)
	}
	if c.Physics.Gravity != "vertical" && c.Physics.Gravity != "centripetal" {
		errs = append(errs, ErrGravity)
	}
	if c.Ball.ColorMin < 0 || c.Ball.ColorMin >= c.Ball.ColorMax || c.Ball.ColorMax > 256 {
		errs = append(errs, ErrColorRange)
	}
	return errors.Join(errs...)
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating a loaded Config in place.
func (c *Config) ComputeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.SimW32 = float32(c.Arena.SimWidth)
	c.Derived.SimH32 = float32(c.Arena.SimHeight)
	c.Derived.Center = vmath.Vec2{X: c.Derived.SimW32 / 2, Y: c.Derived.SimH32 / 2}
	c.Derived.HUDWidth = c.Screen.Width - c.Arena.SimWidth
	if c.Derived.HUDWidth < 0 {
		c.Derived.HUDWidth = 0
	}
	escape := float32(c.Arena.Radius + c.Population.EscapeMargin)
	c.Derived.EscapeSq = escape * escape
	c.Derived.SpawnDist = float32(c.Arena.Radius - c.Ball.Radius - c.Ball.SpawnMargin)
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
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
