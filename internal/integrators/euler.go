package integrators

import "github.com/san-kum/passiveds/internal/dynamo"

// Euler is the explicit first-order stepper.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.Vector, u dynamo.Vector, t float64, dt float64) dynamo.Vector {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.Vector, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
