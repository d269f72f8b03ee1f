// Package control provides velocity-tracking controllers.
//
// Controllers implement [dynamo.Controller]: each cycle they receive the
// measured and the desired velocity and return an effort.
//
//   - [PassiveDS]: passivity-preserving damping controller
//   - [PID]: per-axis velocity PID, a non-passive baseline
//   - [None]: zero effort
//
// # Passive DS
//
// PassiveDS keeps an orthonormal frame whose first axis follows the desired
// velocity direction. A fixed diagonal of non-negative eigenvalues is
// expressed in that frame to form a symmetric positive-semidefinite damping
// matrix D, and the effort is
//
//	u = -D·v + λ₀·v_d
//
// Below the minimum speed the frame is held from the previous cycle since
// the desired direction is undefined there.
//
// # Usage
//
//	ctrl, err := control.New(3, []float64{10, 2}, control.WithSeed(1))
//	if err != nil {
//		return err
//	}
//	u, err := ctrl.Step(current, desired) // once per control tick
//
// A controller is owned by one control loop; Step mutates it in place.
package control
