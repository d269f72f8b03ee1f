package control

import "errors"

var (
	// ErrInvalidDimension indicates an operand whose size does not match the
	// controller's configured dimension.
	ErrInvalidDimension = errors.New("control: invalid dimension")

	// ErrEmptyEigenvalues indicates a construction with no eigenvalues.
	ErrEmptyEigenvalues = errors.New("control: empty eigenvalue configuration")

	// ErrNegativeEigenvalue indicates an eigenvalue that is negative or not
	// finite. Such a value breaks positive semidefiniteness of the damping.
	ErrNegativeEigenvalue = errors.New("control: eigenvalue must be finite and non-negative")

	// ErrOrthonormalization indicates a basis that failed the orthonormality
	// check, or a Gram-Schmidt column that collapsed.
	ErrOrthonormalization = errors.New("control: orthonormalization failure")

	// ErrUndefinedDirection indicates a basis rebuild requested from a
	// near-zero direction.
	ErrUndefinedDirection = errors.New("control: undefined direction")

	// ErrNonFinite indicates an input vector holding NaN or Inf.
	ErrNonFinite = errors.New("control: non-finite input")
)
