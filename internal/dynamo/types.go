package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vector is a dense n-vector.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vector) Dot(other Vector) float64 {
	sum := 0.0
	for i := range v {
		if i < len(other) {
			sum += v[i] * other[i]
		}
	}
	return sum
}

func (v Vector) Add(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] + other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Scale(factor float64) Vector {
	result := make(Vector, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// Vec views v as a gonum column vector sharing the same backing array.
func (v Vector) Vec() *mat.VecDense {
	if len(v) == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(len(v), v)
}

// FromVec copies a gonum vector into a new Vector.
func FromVec(v mat.Vector) Vector {
	out := make(Vector, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// Law maps a measured and a desired velocity to an effort. It is the
// capability every velocity controller in the harness implements.
type Law[V any] interface {
	Step(current, desired V) (V, error)
}

// Controller is a Law over plain vectors.
type Controller = Law[Vector]

// DampingSource exposes the damping matrix applied on the last cycle.
type DampingSource interface {
	Damping() *mat.SymDense
}

// System is a plant driven by an effort vector.
type System interface {
	Derive(x Vector, u Vector, t float64) Vector
	StateDim() int
	ControlDim() int
}

// VelocitySensor extracts the measured velocity from a plant state.
type VelocitySensor interface {
	Velocity(x Vector) Vector
}

type Hamiltonian interface {
	Energy(x Vector) float64
}

type Integrator interface {
	Step(dyn System, x Vector, u Vector, t float64, dt float64) Vector
}

// Sample is one control cycle as seen by metrics and observers.
type Sample struct {
	Time    float64
	State   Vector
	Current Vector
	Desired Vector
	Effort  Vector
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}
