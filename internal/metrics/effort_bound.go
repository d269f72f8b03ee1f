package metrics

import (
	"github.com/san-kum/passiveds/internal/dynamo"
)

// EffortBound is the fraction of cycles whose effort norm stayed within
// limit, e.g. an actuator rating.
type EffortBound struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewEffortBound(limit float64) *EffortBound {
	return &EffortBound{
		name:  "effort_bound",
		limit: limit,
	}
}

func (e *EffortBound) Name() string {
	return e.name
}

func (e *EffortBound) Observe(s dynamo.Sample) {
	e.samples++
	if s.Effort.Norm() > e.limit {
		e.violations++
	}
}

func (e *EffortBound) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *EffortBound) Reset() {
	e.violations = 0
	e.samples = 0
}
