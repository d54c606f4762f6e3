package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eulerflow/internal/scene"
)

const (
	DefaultWidth     = 160.0
	DefaultHeight    = 90.0
	DefaultFrames    = 600
	DefaultObstacleX = 0.7
	DefaultObstacleY = 0.5
)

type Config struct {
	Scene          string         `yaml:"scene"`
	Width          float64        `yaml:"width"`
	Height         float64        `yaml:"height"`
	Resolution     int            `yaml:"resolution"`
	Dt             float64        `yaml:"dt"`
	NumIters       int            `yaml:"num_iters"`
	OverRelaxation float64        `yaml:"over_relaxation"`
	Gravity        float64        `yaml:"gravity"`
	Inflow         float64        `yaml:"inflow"`
	ObstacleRadius float64        `yaml:"obstacle_radius"`
	Frames         int            `yaml:"frames"`
	Backend        string         `yaml:"backend"`
	Display        DisplayConfig  `yaml:"display"`
	Obstacle       ObstacleConfig `yaml:"obstacle"`
}

type DisplayConfig struct {
	Streamlines   bool `yaml:"streamlines"`
	Velocities    bool `yaml:"velocities"`
	Pressure      bool `yaml:"pressure"`
	Smoke         bool `yaml:"smoke"`
	SmokeGradient bool `yaml:"smoke_gradient"`
}

// ObstacleConfig optionally stamps an obstacle right after scene setup,
// which is how headless runs get a bluff body without a pointer.
type ObstacleConfig struct {
	Place bool    `yaml:"place"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

func DefaultConfig() *Config {
	p := scene.DefaultParams(scene.WindTunnel)
	return &Config{
		Scene:          scene.WindTunnel.String(),
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Resolution:     p.Resolution,
		Dt:             p.Dt,
		NumIters:       p.NumIters,
		OverRelaxation: p.OverRelaxation,
		Gravity:        p.Gravity,
		Inflow:         p.Inflow,
		ObstacleRadius: p.ObstacleRadius,
		Frames:         DefaultFrames,
		Backend:        "serial",
		Display: DisplayConfig{
			Smoke: p.Display.Smoke,
		},
	}
}

// ForScene returns a full config record carrying the named scene's
// preset parameters.
func ForScene(t scene.Type) *Config {
	p := scene.DefaultParams(t)
	cfg := DefaultConfig()
	cfg.Scene = t.String()
	cfg.Resolution = p.Resolution
	cfg.Dt = p.Dt
	cfg.NumIters = p.NumIters
	cfg.OverRelaxation = p.OverRelaxation
	cfg.Gravity = p.Gravity
	cfg.Inflow = p.Inflow
	cfg.ObstacleRadius = p.ObstacleRadius
	cfg.Display = DisplayConfig{
		Streamlines:   p.Display.Streamlines,
		Velocities:    p.Display.Velocities,
		Pressure:      p.Display.Pressure,
		Smoke:         p.Display.Smoke,
		SmokeGradient: p.Display.SmokeGradient,
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	if _, err := scene.ParseType(c.Scene); err != nil {
		return err
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames must be non-negative, got %d", c.Frames)
	}
	switch c.Backend {
	case "", "serial", "parallel", "auto":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}

// SceneParams resolves the record into the plain-data form the scene
// driver consumes. Numeric validation happens at scene construction.
func (c *Config) SceneParams() (scene.Params, error) {
	t, err := scene.ParseType(c.Scene)
	if err != nil {
		return scene.Params{}, err
	}
	return scene.Params{
		Type:           t,
		Width:          c.Width,
		Height:         c.Height,
		Resolution:     c.Resolution,
		Density:        scene.Density,
		Dt:             c.Dt,
		NumIters:       c.NumIters,
		OverRelaxation: c.OverRelaxation,
		Gravity:        c.Gravity,
		Inflow:         c.Inflow,
		ObstacleRadius: c.ObstacleRadius,
		Display: scene.DisplayFlags{
			Streamlines:   c.Display.Streamlines,
			Velocities:    c.Display.Velocities,
			Pressure:      c.Display.Pressure,
			Smoke:         c.Display.Smoke,
			SmokeGradient: c.Display.SmokeGradient,
		},
	}, nil
}

// BuildScene constructs the scene and applies the optional initial
// obstacle placement.
func (c *Config) BuildScene() (*scene.Scene, error) {
	params, err := c.SceneParams()
	if err != nil {
		return nil, err
	}
	s, err := scene.New(params)
	if err != nil {
		return nil, err
	}
	if c.Obstacle.Place {
		s.SetObstacle(c.Obstacle.X, c.Obstacle.Y, true)
	}
	return s, nil
}
