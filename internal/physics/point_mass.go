package physics

import (
	"github.com/pkg/errors"

	"github.com/san-kum/passiveds/internal/dynamo"
)

const (
	DefaultMass      = 1.0
	DefaultFriction  = 0.0
	DefaultStiffness = 0.0
)

// PointMass is an n-DOF body. The state is [position(n), velocity(n)] and the
// control input is the applied force.
//
//	m·a = u - c·v - k·x + d
type PointMass struct {
	Dim         int
	Mass        float64
	Friction    float64
	Stiffness   float64
	Disturbance dynamo.Vector
}

var (
	_ dynamo.System         = (*PointMass)(nil)
	_ dynamo.Hamiltonian    = (*PointMass)(nil)
	_ dynamo.VelocitySensor = (*PointMass)(nil)
)

func NewPointMass(dim int) *PointMass {
	return &PointMass{
		Dim:       dim,
		Mass:      DefaultMass,
		Friction:  DefaultFriction,
		Stiffness: DefaultStiffness,
	}
}

func (p *PointMass) StateDim() int   { return p.Dim * 2 }
func (p *PointMass) ControlDim() int { return p.Dim }

func (p *PointMass) Derive(x dynamo.Vector, u dynamo.Vector, t float64) dynamo.Vector {
	n := p.Dim
	dx := make(dynamo.Vector, n*2)

	for i := 0; i < n; i++ {
		pos, vel := x[i], x[n+i]
		dx[i] = vel

		force := -p.Friction*vel - p.Stiffness*pos
		if i < len(u) {
			force += u[i]
		}
		if i < len(p.Disturbance) {
			force += p.Disturbance[i]
		}
		dx[n+i] = force / p.Mass
	}

	return dx
}

// Energy is the kinetic energy plus the energy stored in the anchor spring.
func (p *PointMass) Energy(x dynamo.Vector) float64 {
	n := p.Dim
	energy := 0.0
	for i := 0; i < n; i++ {
		pos, vel := x[i], x[n+i]
		energy += 0.5*p.Mass*vel*vel + 0.5*p.Stiffness*pos*pos
	}
	return energy
}

// Velocity returns the velocity half of the state.
func (p *PointMass) Velocity(x dynamo.Vector) dynamo.Vector {
	return x[p.Dim : 2*p.Dim].Clone()
}

// Position returns the position half of the state.
func (p *PointMass) Position(x dynamo.Vector) dynamo.Vector {
	return x[:p.Dim].Clone()
}

// State packs position and velocity into a plant state. Missing entries are
// zero.
func (p *PointMass) State(position, velocity dynamo.Vector) dynamo.Vector {
	x := make(dynamo.Vector, 2*p.Dim)
	copy(x[:p.Dim], position)
	copy(x[p.Dim:], velocity)
	return x
}

// GetParams returns tunable parameters for live adjustment
func (p *PointMass) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      p.Mass,
		"friction":  p.Friction,
		"stiffness": p.Stiffness,
	}
}

// SetParam adjusts a plant parameter
func (p *PointMass) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if value <= 0 {
			return errors.Errorf("physics: mass must be positive, got %g", value)
		}
		p.Mass = value
	case "friction":
		p.Friction = value
	case "stiffness":
		p.Stiffness = value
	default:
		return errors.Errorf("physics: unknown parameter %q", name)
	}
	return nil
}
