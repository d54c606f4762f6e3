package config

import "github.com/san-kum/eulerflow/internal/scene"

func preset(t scene.Type, mutate func(*Config)) *Config {
	cfg := ForScene(t)
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"tunnel": {
		"default": preset(scene.WindTunnel, nil),
		"vortex": preset(scene.WindTunnel, func(c *Config) {
			c.Obstacle = ObstacleConfig{Place: true, X: DefaultObstacleX, Y: DefaultObstacleY}
			c.Frames = 1200
		}),
		"slow": preset(scene.WindTunnel, func(c *Config) {
			c.Inflow = 1.0
		}),
	},
	"hires-tunnel": {
		"default": preset(scene.HiresTunnel, nil),
		"vortex": preset(scene.HiresTunnel, func(c *Config) {
			c.Obstacle = ObstacleConfig{Place: true, X: DefaultObstacleX, Y: DefaultObstacleY}
			c.Frames = 2400
		}),
	},
	"tank": {
		"default": preset(scene.Tank, nil),
		"settle": preset(scene.Tank, func(c *Config) {
			c.Frames = 300
		}),
	},
	"paint": {
		"default": preset(scene.Paint, nil),
	},
}

func GetPreset(sceneName, preset string) *Config {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(sceneName string) []string {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	return names
}
