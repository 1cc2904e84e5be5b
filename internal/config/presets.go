package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"small": func() *Config {
		c := DefaultConfig()
		c.Name = "small"
		c.Width, c.Height = 800, 600
		c.Grid.Rows, c.Grid.Cols = 10, 15
		return c
	},
	"gale": func() *Config {
		c := DefaultConfig()
		c.Name = "gale"
		c.Wind.Strength = 60
		c.Wind.Frequency = 0.8
		return c
	},
	"calm": func() *Config {
		c := DefaultConfig()
		c.Name = "calm"
		c.Wind.Strength = 0
		return c
	},
	"banner": func() *Config {
		c := DefaultConfig()
		c.Name = "banner"
		c.Grid.Rows, c.Grid.Cols = 12, 50
		c.Grid.RestDistance = 20
		c.Grid.Pin = "corners"
		return c
	},
	"drape": func() *Config {
		c := DefaultConfig()
		c.Name = "drape"
		c.Grid.Rows, c.Grid.Cols = 30, 30
		c.Grid.RestDistance = 15
		c.Physics.Iterations = 8
		c.SelfCollision = CollisionConfig{Enabled: true, Radius: 10}
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
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
