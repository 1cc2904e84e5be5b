package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/clothsim/internal/cloth"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth          = 1920.0
	DefaultHeight         = 1080.0
	DefaultFrameRate      = 60
	DefaultRows           = 20
	DefaultCols           = 30
	DefaultRestDistance   = 25.0
	DefaultGravity        = 10.0
	DefaultTimeStep       = 0.1
	DefaultIterations     = 5
	DefaultCellFactor     = 2.0
	DefaultWindStrength   = 15.0
	DefaultWindFrequency  = 0.2
	DefaultParticleRadius = 8.0
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name           string          `yaml:"name"`
	Width          float64         `yaml:"width"`
	Height         float64         `yaml:"height"`
	FrameRate      int             `yaml:"frame_rate"`
	Workers        int             `yaml:"workers"`
	ParticleRadius float64         `yaml:"particle_radius"`
	Grid           GridConfig      `yaml:"grid"`
	Physics        PhysicsConfig   `yaml:"physics"`
	Wind           WindConfig      `yaml:"wind"`
	SelfCollision  CollisionConfig `yaml:"self_collision"`
}

type GridConfig struct {
	Rows         int     `yaml:"rows"`
	Cols         int     `yaml:"cols"`
	RestDistance float64 `yaml:"rest_distance"`
	Pin          string  `yaml:"pin"`
	OriginX      float64 `yaml:"origin_x"`
	OriginY      float64 `yaml:"origin_y"`
}

type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`
	TimeStep   float64 `yaml:"time_step"`
	Iterations int     `yaml:"iterations"`
	CellFactor float64 `yaml:"cell_factor"`
}

// WindConfig only shapes the horizontal wind term; gravity and constraint
// behaviour are unaffected by it.
type WindConfig struct {
	Strength  float64 `yaml:"strength"`
	Frequency float64 `yaml:"frequency"`
}

type CollisionConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:           "default",
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		FrameRate:      DefaultFrameRate,
		ParticleRadius: DefaultParticleRadius,
		Grid: GridConfig{
			Rows:         DefaultRows,
			Cols:         DefaultCols,
			RestDistance: DefaultRestDistance,
			Pin:          string(cloth.PinTop),
		},
		Physics: PhysicsConfig{
			Gravity:    DefaultGravity,
			TimeStep:   DefaultTimeStep,
			Iterations: DefaultIterations,
			CellFactor: DefaultCellFactor,
		},
		Wind: WindConfig{
			Strength:  DefaultWindStrength,
			Frequency: DefaultWindFrequency,
		},
		SelfCollision: CollisionConfig{
			Radius: DefaultRestDistance * 0.5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy (the struct holds no references).
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects configurations that would fail or misbehave mid-run.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: world %gx%g", ErrInvalidConfig, c.Width, c.Height)
	case c.Grid.Rows < 1 || c.Grid.Cols < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Rows, c.Grid.Cols)
	case c.Grid.RestDistance <= 0:
		return fmt.Errorf("%w: rest distance must be positive, got %g", ErrInvalidConfig, c.Grid.RestDistance)
	case c.Physics.TimeStep <= 0:
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidConfig, c.Physics.TimeStep)
	case c.Physics.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidConfig, c.Physics.Iterations)
	case c.Physics.CellFactor <= 0:
		return fmt.Errorf("%w: cell factor must be positive, got %g", ErrInvalidConfig, c.Physics.CellFactor)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.FrameRate < 1:
		return fmt.Errorf("%w: frame rate must be positive, got %d", ErrInvalidConfig, c.FrameRate)
	}
	if c.SelfCollision.Enabled {
		if c.SelfCollision.Radius <= 0 || c.SelfCollision.Radius > c.CellSize() {
			return fmt.Errorf("%w: self-collision radius %g outside (0, %g]", ErrInvalidConfig, c.SelfCollision.Radius, c.CellSize())
		}
	}
	if err := c.Topology().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// pinned particles skip the bounds clamp, so the sheet must start inside
	o := c.Origin()
	far := o.Add(cloth.V(float64(c.Grid.Cols-1)*c.Grid.RestDistance, float64(c.Grid.Rows-1)*c.Grid.RestDistance))
	if o.X < 0 || o.Y < 0 || far.X > c.Width || far.Y > c.Height {
		return fmt.Errorf("%w: grid spans (%g,%g)-(%g,%g) outside world %gx%g",
			ErrInvalidConfig, o.X, o.Y, far.X, far.Y, c.Width, c.Height)
	}
	return nil
}

// CellSize is the spatial hash cell edge.
func (c *Config) CellSize() float64 {
	return c.Grid.RestDistance * c.Physics.CellFactor
}

// Origin places the sheet at a third of the world unless set explicitly.
func (c *Config) Origin() cloth.Vec2 {
	if c.Grid.OriginX == 0 && c.Grid.OriginY == 0 {
		return cloth.V(c.Width/3, c.Height/3)
	}
	return cloth.V(c.Grid.OriginX, c.Grid.OriginY)
}

func (c *Config) Topology() cloth.Topology {
	return cloth.Topology{
		Rows:         c.Grid.Rows,
		Cols:         c.Grid.Cols,
		RestDistance: c.Grid.RestDistance,
		Origin:       c.Origin(),
		Pin:          cloth.PinPolicy(c.Grid.Pin),
	}
}

// GetParams exposes the tunables addressed by name (sweeps, scenarios, UI).
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":        c.Physics.Gravity,
		"time_step":      c.Physics.TimeStep,
		"iterations":     float64(c.Physics.Iterations),
		"wind_strength":  c.Wind.Strength,
		"wind_frequency": c.Wind.Frequency,
		"rest_distance":  c.Grid.RestDistance,
	}
}

func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		c.Physics.Gravity = value
	case "time_step":
		c.Physics.TimeStep = value
	case "iterations":
		c.Physics.Iterations = int(value)
	case "wind_strength":
		c.Wind.Strength = value
	case "wind_frequency":
		c.Wind.Frequency = value
	case "rest_distance":
		c.Grid.RestDistance = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	return nil
}
