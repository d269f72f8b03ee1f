package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Controller.Eigenvalues = cloneFloats(c.Controller.Eigenvalues)
	out.Plant.Disturbance = cloneFloats(c.Plant.Disturbance)
	out.InitState.Position = cloneFloats(c.InitState.Position)
	out.InitState.Velocity = cloneFloats(c.InitState.Velocity)
	if c.Setpoints != nil {
		out.Setpoints = make([]Setpoint, len(c.Setpoints))
		for i, sp := range c.Setpoints {
			out.Setpoints[i] = Setpoint{At: sp.At, Velocity: cloneFloats(sp.Velocity)}
		}
	}
	return &out
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}

// SetParam sets a numeric field by name. lambdaN sets eigenvalue N,
// extending the list with its last value when N is past the end.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		c.Controller.Kp = value
	case "ki":
		c.Controller.Ki = value
	case "kd":
		c.Controller.Kd = value
	case "min_speed":
		c.Controller.MinSpeed = value
	case "mass":
		c.Plant.Mass = value
	case "friction":
		c.Plant.Friction = value
	case "stiffness":
		c.Plant.Stiffness = value
	default:
		idx, ok := strings.CutPrefix(name, "lambda")
		if !ok {
			return errors.Errorf("unknown parameter %q", name)
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 || i >= c.Controller.Dim {
			return errors.Errorf("parameter %q is not an eigenvalue index below %d", name, c.Controller.Dim)
		}
		eig := c.Controller.Eigenvalues
		for len(eig) <= i {
			last := 0.0
			if len(eig) > 0 {
				last = eig[len(eig)-1]
			}
			eig = append(eig, last)
		}
		eig[i] = value
		c.Controller.Eigenvalues = eig
	}
	return nil
}
