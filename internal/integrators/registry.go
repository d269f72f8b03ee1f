package integrators

import "github.com/san-kum/passiveds/internal/dynamo"

// New returns the stepper registered under name.
func New(name string) (dynamo.Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "rk4", "":
		return NewRK4(), true
	}
	return nil, false
}

// Names lists the registered steppers.
func Names() []string {
	return []string{"euler", "rk4"}
}
