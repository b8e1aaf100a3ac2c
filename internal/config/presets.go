package config

import "sort"

// Presets mirror the solver builds this viewer is paired with.
var Presets = map[string]*Config{
	"serial": {
		Grid:        GridConfig{Shape: "fixed", NX: 256, NY: 256},
		OutputEvery: 50,
	},
	"viewer": {
		Grid:        GridConfig{Shape: "fixed", NX: 256, NY: 256},
		OutputEvery: 100,
	},
	"burgers81": {
		Grid:        GridConfig{Shape: "fixed", NX: 81, NY: 81},
		OutputEvery: 100,
	},
	"auto": {
		Grid:        GridConfig{Shape: "infer"},
		OutputEvery: 100,
	},
}

// GetPreset returns a full config with the preset's grid and interval
// applied over the defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Grid.Shape = p.Grid.Shape
	if p.Grid.NX > 0 {
		cfg.Grid.NX = p.Grid.NX
		cfg.Grid.NY = p.Grid.NY
	}
	cfg.OutputEvery = p.OutputEvery
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
