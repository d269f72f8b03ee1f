package control

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// Report summarises the invariants observed while driving a controller with
// random inputs.
type Report struct {
	Cycles         int
	Held           int
	Orthonormality float64 // worst deviation of BᵀB from I
	Symmetry       float64 // worst |D - Dᵀ| entry
	MinEigenvalue  float64 // smallest damping eigenvalue seen
	MinPower       float64 // smallest vᵀDv / |v|² seen
	Err            error
}

func (r Report) Passed() bool { return r.Err == nil }

// Check drives c for cycles steps with random velocities drawn from rng.
// Roughly one cycle in four uses a desired velocity below the gate so that
// the hold path is exercised as well. Every invariant violation is
// collected into Report.Err.
func Check(c *PassiveDS, cycles int, rng *rand.Rand) Report {
	rep := Report{
		MinEigenvalue: math.Inf(1),
		MinPower:      math.Inf(1),
	}
	n := c.Dim()
	tol := c.Tolerance()
	var errs error

	for i := 0; i < cycles; i++ {
		current := randomVector(rng, n, 2)
		desired := randomVector(rng, n, 1)
		hold := rng.Intn(4) == 0
		if hold {
			desired = desired.Scale(c.MinSpeed() / (2 * math.Max(desired.Norm(), 1)))
		}

		before, beforeDamping := c.Basis(), c.Damping()
		if _, err := c.Step(current, desired); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "cycle %d", i))
			continue
		}
		rep.Cycles++

		basis, damping := c.Basis(), c.Damping()
		if hold {
			rep.Held++
			if !mat.Equal(before, basis) {
				errs = multierr.Append(errs, errors.Errorf("cycle %d: frame changed while holding", i))
			}
			if i > 0 && !mat.EqualApprox(beforeDamping, damping, tol) {
				errs = multierr.Append(errs, errors.Errorf("cycle %d: damping changed while holding", i))
			}
		}

		rep.Orthonormality = math.Max(rep.Orthonormality, OrthonormalityError(basis))
		rep.Symmetry = math.Max(rep.Symmetry, SymmetryError(damping))

		lowest, err := MinEigenvalue(damping)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "cycle %d", i))
			continue
		}
		rep.MinEigenvalue = math.Min(rep.MinEigenvalue, lowest)

		if v := current.Norm(); v > 0 {
			p := mat.Inner(current.Vec(), damping, current.Vec()) / (v * v)
			rep.MinPower = math.Min(rep.MinPower, p)
		}
	}

	if rep.Orthonormality >= tol {
		errs = multierr.Append(errs, errors.Wrapf(ErrOrthonormalization, "worst deviation %g", rep.Orthonormality))
	}
	if rep.Symmetry > tol {
		errs = multierr.Append(errs, errors.Errorf("control: damping asymmetry %g", rep.Symmetry))
	}
	if rep.MinEigenvalue < -tol {
		errs = multierr.Append(errs, errors.Errorf("control: damping eigenvalue %g is negative", rep.MinEigenvalue))
	}
	rep.Err = errs
	return rep
}

func randomVector(rng *rand.Rand, n int, scale float64) dynamo.Vector {
	v := make(dynamo.Vector, n)
	for i := range v {
		v[i] = scale * (2*rng.Float64() - 1)
	}
	return v
}
