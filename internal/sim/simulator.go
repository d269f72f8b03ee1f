package sim

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// Simulator closes the loop between a velocity controller and a plant at a
// fixed rate. Each cycle it measures the plant velocity, looks up the
// desired velocity, asks the controller for an effort and integrates the
// plant with that effort held over the step.
type Simulator struct {
	plant      Plant
	integrator dynamo.Integrator
	controller dynamo.Controller
	schedule   *Schedule
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     *zap.Logger
}

func New(plant Plant, integrator dynamo.Integrator, controller dynamo.Controller, schedule *Schedule) *Simulator {
	return &Simulator{
		plant:      plant,
		integrator: integrator,
		controller: controller,
		schedule:   schedule,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run executes the loop from x0. A controller error stops the run and is
// returned as a *StepError together with the partial result.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.Vector, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Times:      make([]float64, 0, steps+1),
		States:     make([]dynamo.Vector, 0, steps+1),
		Velocities: make([]dynamo.Vector, 0, steps),
		Desired:    make([]dynamo.Vector, 0, steps),
		Efforts:    make([]dynamo.Vector, 0, steps),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	result.InitialEnergy = s.energy(x)

	s.logger.Debug("run started", zap.Int("steps", steps), zap.Float64("dt", cfg.Dt))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, x)
			return result, ctx.Err()
		default:
		}

		v := s.plant.Velocity(x)
		vd := s.schedule.At(t)

		u, err := s.controller.Step(v, vd)
		if err != nil {
			s.finish(result, x)
			return result, &StepError{Step: i, Time: t, Wrapped: err}
		}

		sample := dynamo.Sample{Time: t, State: x, Current: v, Desired: vd, Effort: u}
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		next := s.integrator.Step(s.plant, x, u, t, cfg.Dt)
		if cfg.ValidateState && !next.IsValid() {
			s.finish(result, x)
			return result, &StepError{Step: i, Time: t, Wrapped: ErrUnstable}
		}

		result.Velocities = append(result.Velocities, v)
		result.Desired = append(result.Desired, vd)
		result.Efforts = append(result.Efforts, u)

		x = next
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	s.finish(result, x)
	s.logger.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("final_energy", result.FinalEnergy),
	)
	return result, nil
}

func (s *Simulator) finish(result *Result, x dynamo.Vector) {
	result.FinalEnergy = s.energy(x)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(x0 dynamo.Vector, cfg Config) error {
	if cfg.Dt <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "duration must be positive, got %f", cfg.Duration)
	}
	if len(x0) != s.plant.StateDim() {
		return errors.Wrapf(dynamo.ErrDimensionMismatch, "initial state has %d entries, plant wants %d", len(x0), s.plant.StateDim())
	}
	if s.schedule.Dim() != s.plant.ControlDim() {
		return errors.Wrapf(dynamo.ErrDimensionMismatch, "schedule has dimension %d, plant wants %d", s.schedule.Dim(), s.plant.ControlDim())
	}
	return nil
}

func (s *Simulator) energy(x dynamo.Vector) float64 {
	if h, ok := s.plant.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
