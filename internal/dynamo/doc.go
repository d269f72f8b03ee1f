// Package dynamo provides the shared primitives of the velocity-control
// harness.
//
// The package defines the vector type and the small interfaces that the
// controller, the plant and the simulation loop agree on:
//
//   - [Vector]: dense float vector used for states, velocities and efforts
//   - [Law]: capability interface mapping (current, desired) to an effort
//   - [Controller]: a [Law] over [Vector]
//   - [System]: plant dynamics dX/dt = f(X, u, t)
//   - [Integrator]: numerical stepper for a [System]
//
// # Example
//
//	ctrl, _ := control.New(2, []float64{1, 5})
//	effort, err := ctrl.Step(dynamo.Vector{0, 0}, dynamo.Vector{1, 0})
//
// # Thread Safety
//
// Controllers mutate internal state on every Step and are NOT safe for
// concurrent use. Callers driving one controller from several goroutines
// must serialize access.
package dynamo
