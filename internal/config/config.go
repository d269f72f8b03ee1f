package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/passiveds/internal/integrators"
)

const (
	DefaultDim       = 2
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultMinSpeed  = 1e-6
	DefaultTolerance = 1e-6
	DefaultKp        = 10.0
	DefaultKi        = 0.1
	DefaultKd        = 0.0

	// EnvPrefix is prepended to every environment override.
	EnvPrefix = "PASSIVEDS_"
)

var ControllerKinds = []string{"passive", "pid", "none"}

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Plant      PlantConfig      `yaml:"plant"`
	Sim        SimConfig        `yaml:"sim"`
	InitState  InitStateConfig  `yaml:"init_state"`
	Setpoints  []Setpoint       `yaml:"setpoints"`
	Logging    LoggerConfig     `yaml:"logging"`
}

type ControllerConfig struct {
	Kind        string    `yaml:"kind"`
	Dim         int       `yaml:"dim"`
	Eigenvalues []float64 `yaml:"eigenvalues"`
	MinSpeed    float64   `yaml:"min_speed"`
	Tolerance   float64   `yaml:"tolerance"`
	// Seed for the initial frame. Zero seeds from the clock.
	Seed int64   `yaml:"seed" env:"SEED"`
	Kp   float64 `yaml:"kp"`
	Ki   float64 `yaml:"ki"`
	Kd   float64 `yaml:"kd"`
}

type PlantConfig struct {
	Mass        float64   `yaml:"mass"`
	Friction    float64   `yaml:"friction"`
	Stiffness   float64   `yaml:"stiffness"`
	Disturbance []float64 `yaml:"disturbance,omitempty"`
}

type SimConfig struct {
	Dt         float64 `yaml:"dt" env:"DT"`
	Duration   float64 `yaml:"duration" env:"DURATION"`
	Integrator string  `yaml:"integrator" env:"INTEGRATOR"`
}

type InitStateConfig struct {
	Position []float64 `yaml:"position,omitempty"`
	Velocity []float64 `yaml:"velocity,omitempty"`
}

// Setpoint switches the desired velocity at time At.
type Setpoint struct {
	At       float64   `yaml:"at"`
	Velocity []float64 `yaml:"velocity"`
}

// LoggerConfig configures the zap logger. LogFile enables a rotated JSON
// file sink next to the console output.
type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	AddSource  bool   `yaml:"add_source"`
	LogFile    string `yaml:"log_file,omitempty" env:"LOG_FILE"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			Kind:        "passive",
			Dim:         DefaultDim,
			Eigenvalues: []float64{4.0, 1.0},
			MinSpeed:    DefaultMinSpeed,
			Tolerance:   DefaultTolerance,
			Seed:        1,
			Kp:          DefaultKp,
			Ki:          DefaultKi,
			Kd:          DefaultKd,
		},
		Plant: PlantConfig{
			Mass:     1.0,
			Friction: 0.1,
		},
		Sim: SimConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Integrator: "rk4",
		},
		Setpoints: []Setpoint{
			{At: 0, Velocity: []float64{1, 0}},
		},
		Logging: LoggerConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PASSIVEDS_* variables. Unset variables
// leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs error
	ctl := c.Controller

	if !knownKind(ctl.Kind) {
		errs = multierr.Append(errs, errors.Errorf("controller.kind %q is not one of %v", ctl.Kind, ControllerKinds))
	}
	if ctl.Dim < 1 {
		errs = multierr.Append(errs, errors.Errorf("controller.dim must be at least 1, got %d", ctl.Dim))
	}
	if ctl.Kind == "passive" {
		if len(ctl.Eigenvalues) == 0 {
			errs = multierr.Append(errs, errors.New("controller.eigenvalues must not be empty"))
		}
		if len(ctl.Eigenvalues) > ctl.Dim {
			errs = multierr.Append(errs, errors.Errorf("controller.eigenvalues has %d entries for dimension %d", len(ctl.Eigenvalues), ctl.Dim))
		}
		for i, v := range ctl.Eigenvalues {
			if v < 0 {
				errs = multierr.Append(errs, errors.Errorf("controller.eigenvalues[%d] is negative", i))
			}
		}
	}
	if ctl.MinSpeed < 0 {
		errs = multierr.Append(errs, errors.Errorf("controller.min_speed must not be negative, got %g", ctl.MinSpeed))
	}
	if ctl.Tolerance <= 0 {
		errs = multierr.Append(errs, errors.Errorf("controller.tolerance must be positive, got %g", ctl.Tolerance))
	}

	if c.Plant.Mass <= 0 {
		errs = multierr.Append(errs, errors.Errorf("plant.mass must be positive, got %g", c.Plant.Mass))
	}
	if n := len(c.Plant.Disturbance); n > 0 && n != ctl.Dim {
		errs = multierr.Append(errs, errors.Errorf("plant.disturbance has %d entries, want %d", n, ctl.Dim))
	}

	if c.Sim.Dt <= 0 {
		errs = multierr.Append(errs, errors.Errorf("sim.dt must be positive, got %g", c.Sim.Dt))
	}
	if c.Sim.Duration <= 0 {
		errs = multierr.Append(errs, errors.Errorf("sim.duration must be positive, got %g", c.Sim.Duration))
	}
	if _, ok := integrators.New(c.Sim.Integrator); !ok {
		errs = multierr.Append(errs, errors.Errorf("sim.integrator %q is not one of %v", c.Sim.Integrator, integrators.Names()))
	}

	if len(c.InitState.Position) > ctl.Dim || len(c.InitState.Velocity) > ctl.Dim {
		errs = multierr.Append(errs, errors.Errorf("init_state has more entries than dimension %d", ctl.Dim))
	}
	for i, sp := range c.Setpoints {
		if len(sp.Velocity) != ctl.Dim {
			errs = multierr.Append(errs, errors.Errorf("setpoints[%d] has %d entries, want %d", i, len(sp.Velocity), ctl.Dim))
		}
	}
	return errs
}

func knownKind(kind string) bool {
	for _, k := range ControllerKinds {
		if k == kind {
			return true
		}
	}
	return false
}
