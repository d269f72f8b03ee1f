package dynamo

import "errors"

// Domain errors shared by the harness packages.
var (
	// ErrInvalidState indicates a vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched vector dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)
