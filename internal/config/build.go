package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
	"github.com/san-kum/passiveds/internal/integrators"
	"github.com/san-kum/passiveds/internal/physics"
	"github.com/san-kum/passiveds/internal/sim"
)

// BuildPlant returns the point mass described by the plant section.
func (c *Config) BuildPlant() *physics.PointMass {
	p := physics.NewPointMass(c.Controller.Dim)
	p.Mass = c.Plant.Mass
	p.Friction = c.Plant.Friction
	p.Stiffness = c.Plant.Stiffness
	if len(c.Plant.Disturbance) > 0 {
		p.Disturbance = dynamo.Vector(c.Plant.Disturbance).Clone()
	}
	return p
}

// BuildController returns the controller named by controller.kind. An empty
// kind selects kind instead, which lets callers compare controllers against
// one configuration.
func (c *Config) BuildController(kind string, logger *zap.Logger) (dynamo.Controller, error) {
	if kind == "" {
		kind = c.Controller.Kind
	}
	ctl := c.Controller
	switch kind {
	case "passive":
		opts := []control.Option{
			control.WithMinSpeed(ctl.MinSpeed),
			control.WithTolerance(ctl.Tolerance),
			control.WithLogger(logger),
		}
		if ctl.Seed != 0 {
			opts = append(opts, control.WithSeed(ctl.Seed))
		}
		return control.New(ctl.Dim, ctl.Eigenvalues, opts...)
	case "pid":
		return control.NewPID(ctl.Dim, ctl.Kp, ctl.Ki, ctl.Kd, c.Sim.Dt), nil
	case "none":
		return control.NewNone(ctl.Dim), nil
	}
	return nil, errors.Errorf("unknown controller %q", kind)
}

func (c *Config) BuildIntegrator() (dynamo.Integrator, error) {
	integ, ok := integrators.New(c.Sim.Integrator)
	if !ok {
		return nil, errors.Errorf("unknown integrator %q", c.Sim.Integrator)
	}
	return integ, nil
}

func (c *Config) BuildSchedule() (*sim.Schedule, error) {
	segments := make([]sim.Segment, len(c.Setpoints))
	for i, sp := range c.Setpoints {
		segments[i] = sim.Segment{Start: sp.At, Velocity: dynamo.Vector(sp.Velocity)}
	}
	return sim.NewSchedule(c.Controller.Dim, segments)
}

// InitialState packs init_state into a plant state.
func (c *Config) InitialState() dynamo.Vector {
	p := physics.NewPointMass(c.Controller.Dim)
	return p.State(c.InitState.Position, c.InitState.Velocity)
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Sim.Dt
	cfg.Duration = c.Sim.Duration
	return cfg
}

// BuildSimulator wires plant, integrator, controller and schedule together.
func (c *Config) BuildSimulator(kind string, logger *zap.Logger) (*sim.Simulator, *physics.PointMass, dynamo.Controller, error) {
	plant := c.BuildPlant()
	integ, err := c.BuildIntegrator()
	if err != nil {
		return nil, nil, nil, err
	}
	ctrl, err := c.BuildController(kind, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	schedule, err := c.BuildSchedule()
	if err != nil {
		return nil, nil, nil, err
	}
	s := sim.New(plant, integ, ctrl, schedule)
	s.SetLogger(logger)
	return s, plant, ctrl, nil
}
