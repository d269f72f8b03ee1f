package config

import "sort"

// Presets patch the default configuration into a named scenario.
var Presets = map[string]func(*Config){
	// Step changes of direction in the plane with anisotropic damping.
	"track": func(c *Config) {
		c.Controller.Eigenvalues = []float64{4.0, 1.0}
		c.Sim.Duration = 12.0
		c.Setpoints = []Setpoint{
			{At: 0, Velocity: []float64{1, 0}},
			{At: 4, Velocity: []float64{0, 1}},
			{At: 8, Velocity: []float64{-1, 1}},
		}
	},
	// Equal damping in every direction reduces to a plain velocity loop.
	"isotropic": func(c *Config) {
		c.Controller.Dim = 3
		c.Controller.Eigenvalues = []float64{2.0}
		c.Setpoints = []Setpoint{
			{At: 0, Velocity: []float64{1, 1, 0}},
			{At: 5, Velocity: []float64{0, 0, 1}},
		}
	},
	// The desired velocity drops to zero and the frame is held.
	"hold": func(c *Config) {
		c.InitState.Velocity = []float64{0.5, 0.5}
		c.Setpoints = []Setpoint{
			{At: 0, Velocity: []float64{1, 0}},
			{At: 3, Velocity: []float64{0, 0}},
		}
	},
	// A full reversal of the desired direction.
	"reverse": func(c *Config) {
		c.Controller.Eigenvalues = []float64{6.0, 0.5}
		c.Setpoints = []Setpoint{
			{At: 0, Velocity: []float64{1, 0.5}},
			{At: 5, Velocity: []float64{-1, -0.5}},
		}
	},
	// A constant push across the desired direction, resisted by the
	// transverse damping only.
	"disturbance": func(c *Config) {
		c.Controller.Eigenvalues = []float64{4.0, 8.0}
		c.Plant.Friction = 0
		c.Plant.Disturbance = []float64{0, 2}
		c.Setpoints = []Setpoint{
			{At: 0, Velocity: []float64{1, 0}},
		}
	},
}

// GetPreset returns a fresh configuration for name, or nil.
func GetPreset(name string) *Config {
	patch, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	patch(cfg)
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
