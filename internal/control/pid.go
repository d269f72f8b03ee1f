package control

import (
	"github.com/pkg/errors"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// PID tracks the desired velocity independently on every axis. It is a
// baseline for comparison: its integral action can inject energy into the
// plant, so it is not passive in general.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Dt       float64
	dim      int
	integral dynamo.Vector
	prevErr  dynamo.Vector
	first    bool
}

var _ dynamo.Controller = (*PID)(nil)

func NewPID(dim int, kp, ki, kd, dt float64) *PID {
	return &PID{
		Kp:       kp,
		Ki:       ki,
		Kd:       kd,
		Dt:       dt,
		dim:      dim,
		integral: make(dynamo.Vector, dim),
		prevErr:  make(dynamo.Vector, dim),
		first:    true,
	}
}

func (p *PID) Step(current, desired dynamo.Vector) (dynamo.Vector, error) {
	if len(current) != p.dim || len(desired) != p.dim {
		return nil, errors.Wrapf(ErrInvalidDimension, "pid: got %d/%d entries, want %d", len(current), len(desired), p.dim)
	}
	if !current.IsValid() || !desired.IsValid() {
		return nil, ErrNonFinite
	}

	err := desired.Sub(current)
	u := make(dynamo.Vector, p.dim)

	if p.first || p.Dt <= 0 {
		copy(p.prevErr, err)
		p.first = false
		for i := range u {
			u[i] = p.Kp * err[i]
		}
		return u, nil
	}

	for i := range u {
		p.integral[i] += err[i] * p.Dt
		derivative := (err[i] - p.prevErr[i]) / p.Dt
		u[i] = p.Kp*err[i] + p.Ki*p.integral[i] + p.Kd*derivative
	}
	copy(p.prevErr, err)
	return u, nil
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	for i := range p.integral {
		p.integral[i] = 0
		p.prevErr[i] = 0
	}
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	default:
		return errors.Errorf("pid: unknown parameter %q", name)
	}
	return nil
}
