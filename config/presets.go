package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"empty": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = nil
		return cfg
	},
	"tower": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = nil
		for i := 0; i < 5; i++ {
			cfg.Bodies = append(cfg.Bodies, BodySpec{
				Shape:    ShapeCube,
				Size:     [3]float64{0.6, 0.4, 0.6},
				Position: [3]float64{0, 0.2 + float64(i)*0.45, 0},
			})
		}
		cfg.Bodies = append(cfg.Bodies, BodySpec{Shape: ShapeSphere, Radius: 0.3, Position: [3]float64{0, 4, 0}})
		cfg.World.Restitution = 0.2
		return cfg
	},
	"rain": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = nil
		for i := 0; i < 12; i++ {
			x := float64(i%4)*0.9 - 1.35
			z := float64(i/4)*0.9 - 0.9
			body := BodySpec{Shape: ShapeSphere, Radius: 0.25, Position: [3]float64{x, 3 + float64(i)*0.3, z}}
			if i%3 == 0 {
				body = BodySpec{Shape: ShapeCube, Size: [3]float64{0.4, 0.4, 0.4}, Position: body.Position}
			}
			cfg.Bodies = append(cfg.Bodies, body)
		}
		cfg.World.Workers = 4
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, nil if unknown
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
