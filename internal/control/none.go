package control

import (
	"github.com/pkg/errors"

	"github.com/san-kum/passiveds/internal/dynamo"
)

type None struct {
	dim int
}

var _ dynamo.Controller = (*None)(nil)

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Step(current, desired dynamo.Vector) (dynamo.Vector, error) {
	if len(current) != n.dim || len(desired) != n.dim {
		return nil, errors.Wrapf(ErrInvalidDimension, "none: got %d/%d entries, want %d", len(current), len(desired), n.dim)
	}
	return make(dynamo.Vector, n.dim), nil
}
