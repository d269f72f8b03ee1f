package metrics

import (
	"math"

	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
)

// PassivityMargin is the smallest damping eigenvalue seen across cycles.
// A negative value means the controller could have injected energy.
type PassivityMargin struct {
	name   string
	src    dynamo.DampingSource
	lowest float64
	failed int
}

func NewPassivityMargin(src dynamo.DampingSource) *PassivityMargin {
	return &PassivityMargin{
		name:   "passivity_margin",
		src:    src,
		lowest: math.Inf(1),
	}
}

func (p *PassivityMargin) Name() string { return p.name }

// Observe reads the damping the controller applied on the sample's cycle.
func (p *PassivityMargin) Observe(s dynamo.Sample) {
	v, err := control.MinEigenvalue(p.src.Damping())
	if err != nil {
		p.failed++
		return
	}
	p.lowest = math.Min(p.lowest, v)
}

func (p *PassivityMargin) Value() float64 {
	if math.IsInf(p.lowest, 1) {
		return 0
	}
	return p.lowest
}

func (p *PassivityMargin) Reset() {
	p.lowest = math.Inf(1)
	p.failed = 0
}
