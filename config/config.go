package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGravity          = -9.82
	DefaultFriction         = 0.1
	DefaultRestitution      = 0.7
	DefaultSubsteps         = 4
	DefaultWorkers          = 1
	DefaultMaxDelta         = 0.1
	DefaultTargetHz         = 60.0
	DefaultSolverIterations = 3
	DefaultMaxSphereRadius  = 0.5
	DefaultMaxCubeSize      = 1.0
	DefaultSpawnHalfExtent  = 1.5
	DefaultSpawnHeight      = 3.0
	DefaultFPS              = 60
	DefaultWidth            = 1280
	DefaultHeight           = 720

	ShapeSphere = "sphere"
	ShapeCube   = "cube"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	World  WorldConfig  `yaml:"world"`
	Loop   LoopConfig   `yaml:"loop"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Render RenderConfig `yaml:"render"`
	Bodies []BodySpec   `yaml:"bodies"`
}

type WorldConfig struct {
	Gravity     [3]float64 `yaml:"gravity"`
	Friction    float64    `yaml:"friction"`
	Restitution float64    `yaml:"restitution"`
	Substeps    int        `yaml:"substeps"`
	Workers     int        `yaml:"workers"`
	AllowSleep  bool       `yaml:"allow_sleep"`
	MaxDelta    float64    `yaml:"max_delta"`
}

type LoopConfig struct {
	TargetHz         float64 `yaml:"target_hz"`
	SolverIterations int     `yaml:"solver_iterations"`
}

type SpawnConfig struct {
	MaxSphereRadius float64 `yaml:"max_sphere_radius"`
	MaxCubeSize     float64 `yaml:"max_cube_size"`
	HalfExtent      float64 `yaml:"half_extent"`
	Height          float64 `yaml:"height"`
	Seed            uint64  `yaml:"seed"` // 0 picks a random seed
}

type RenderConfig struct {
	FPS    int    `yaml:"fps"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// BodySpec describes one body created at startup
type BodySpec struct {
	Shape    string     `yaml:"shape"`
	Radius   float64    `yaml:"radius,omitempty"`
	Size     [3]float64 `yaml:"size,omitempty"` // width, height, depth
	Position [3]float64 `yaml:"position"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Gravity:     [3]float64{0, DefaultGravity, 0},
			Friction:    DefaultFriction,
			Restitution: DefaultRestitution,
			Substeps:    DefaultSubsteps,
			Workers:     DefaultWorkers,
			MaxDelta:    DefaultMaxDelta,
		},
		Loop: LoopConfig{
			TargetHz:         DefaultTargetHz,
			SolverIterations: DefaultSolverIterations,
		},
		Spawn: SpawnConfig{
			MaxSphereRadius: DefaultMaxSphereRadius,
			MaxCubeSize:     DefaultMaxCubeSize,
			HalfExtent:      DefaultSpawnHalfExtent,
			Height:          DefaultSpawnHeight,
		},
		Render: RenderConfig{
			FPS:    DefaultFPS,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  "tumble",
		},
		Bodies: defaultBodies(),
	}
}

func defaultBodies() []BodySpec {
	return []BodySpec{
		{Shape: ShapeCube, Size: [3]float64{0.5, 0.7, 0.3}, Position: [3]float64{0, 3, 1}},
		{Shape: ShapeSphere, Radius: 0.5, Position: [3]float64{0, 3, 0}},
		{Shape: ShapeSphere, Radius: 0.8, Position: [3]float64{1, 4, 2}},
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
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

// Validate checks the values a world or a loop could not work with
func (c *Config) Validate() error {
	for _, g := range c.World.Gravity {
		if !finite(g) {
			return fmt.Errorf("%w: world.gravity %v", ErrInvalid, c.World.Gravity)
		}
	}
	if !finite(c.World.Friction) || c.World.Friction < 0 {
		return fmt.Errorf("%w: world.friction %v must be >= 0", ErrInvalid, c.World.Friction)
	}
	if !finite(c.World.Restitution) || c.World.Restitution < 0 || c.World.Restitution > 1 {
		return fmt.Errorf("%w: world.restitution %v must be within [0, 1]", ErrInvalid, c.World.Restitution)
	}
	if c.World.Substeps < 1 {
		return fmt.Errorf("%w: world.substeps %d must be >= 1", ErrInvalid, c.World.Substeps)
	}
	if c.World.Workers < 1 {
		return fmt.Errorf("%w: world.workers %d must be >= 1", ErrInvalid, c.World.Workers)
	}
	if !finite(c.World.MaxDelta) || c.World.MaxDelta <= 0 {
		return fmt.Errorf("%w: world.max_delta %v must be > 0", ErrInvalid, c.World.MaxDelta)
	}
	if !finite(c.Loop.TargetHz) || c.Loop.TargetHz <= 0 {
		return fmt.Errorf("%w: loop.target_hz %v must be > 0", ErrInvalid, c.Loop.TargetHz)
	}
	if c.Loop.SolverIterations < 1 {
		return fmt.Errorf("%w: loop.solver_iterations %d must be >= 1", ErrInvalid, c.Loop.SolverIterations)
	}
	for name, v := range map[string]float64{
		"spawn.max_sphere_radius": c.Spawn.MaxSphereRadius,
		"spawn.max_cube_size":     c.Spawn.MaxCubeSize,
	} {
		if !finite(v) || v <= 0 {
			return fmt.Errorf("%w: %s %v must be > 0", ErrInvalid, name, v)
		}
	}
	if !finite(c.Spawn.HalfExtent) || c.Spawn.HalfExtent < 0 {
		return fmt.Errorf("%w: spawn.half_extent %v must be >= 0", ErrInvalid, c.Spawn.HalfExtent)
	}
	if !finite(c.Spawn.Height) {
		return fmt.Errorf("%w: spawn.height %v", ErrInvalid, c.Spawn.Height)
	}
	if c.Render.FPS < 1 {
		return fmt.Errorf("%w: render.fps %d must be >= 1", ErrInvalid, c.Render.FPS)
	}
	for i, body := range c.Bodies {
		if err := body.Validate(); err != nil {
			return fmt.Errorf("bodies[%d]: %w", i, err)
		}
	}
	return nil
}

func (b BodySpec) Validate() error {
	for _, p := range b.Position {
		if !finite(p) {
			return fmt.Errorf("%w: position %v", ErrInvalid, b.Position)
		}
	}

	switch b.Shape {
	case ShapeSphere:
		if !finite(b.Radius) || b.Radius <= 0 {
			return fmt.Errorf("%w: sphere radius %v must be > 0", ErrInvalid, b.Radius)
		}
	case ShapeCube:
		for _, s := range b.Size {
			if !finite(s) || s <= 0 {
				return fmt.Errorf("%w: cube size %v must be > 0", ErrInvalid, b.Size)
			}
		}
	default:
		return fmt.Errorf("%w: unknown shape %q", ErrInvalid, b.Shape)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
