// Package physics provides plants for exercising velocity controllers.
//
// Each plant implements [dynamo.System]; the effort produced by a controller
// is the plant's control input:
//
//   - [PointMass]: n-DOF mass with viscous friction, an optional anchor
//     spring and a constant disturbance force
//
// Plants also implement [dynamo.Hamiltonian] so that the energy a
// controller puts into the plant can be monitored, and
// [dynamo.VelocitySensor] so the loop can read the measured velocity:
//
//	plant := physics.NewPointMass(2)
//	v := plant.Velocity(x)
//	e := plant.Energy(x)
package physics
