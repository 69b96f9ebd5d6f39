package config

import "sort"

// Presets tune snowfall intensity on top of the defaults.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Snow.Count = 120
		c.Snow.SpeedMin = 0.3
		c.Snow.SpeedSpread = 0.5
		c.Snow.WindRange = 0.4
		c.Snow.WindChangeRate = 0.001
	},
	"flurry": func(c *Config) {},
	"blizzard": func(c *Config) {
		c.Snow.Count = 900
		c.Snow.SpeedMin = 1.5
		c.Snow.SpeedSpread = 2
		c.Snow.WindRange = 3
		c.Snow.WindChangeRate = 0.006
		c.Snow.FirstGustMin = 500
		c.Snow.FirstGustSpread = 1000
		c.Snow.GustMin = 800
		c.Snow.GustSpread = 2000
	},
}

// GetPreset returns the default config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset tunes cfg in place. It reports whether the preset exists.
func ApplyPreset(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
