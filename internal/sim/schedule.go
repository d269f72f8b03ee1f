package sim

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// Segment holds Velocity from Start until the next segment begins.
type Segment struct {
	Start    float64
	Velocity dynamo.Vector
}

// Schedule is a piecewise-constant desired velocity. It stands in for the
// upstream planner that feeds the controller in a real loop.
type Schedule struct {
	dim      int
	segments []Segment
}

// NewSchedule sorts segments by start time. Before the first segment the
// desired velocity is zero.
func NewSchedule(dim int, segments []Segment) (*Schedule, error) {
	sorted := make([]Segment, len(segments))
	for i, seg := range segments {
		if len(seg.Velocity) != dim {
			return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "segment %d has %d entries, want %d", i, len(seg.Velocity), dim)
		}
		if !seg.Velocity.IsValid() {
			return nil, errors.Wrapf(dynamo.ErrInvalidState, "segment %d", i)
		}
		sorted[i] = Segment{Start: seg.Start, Velocity: seg.Velocity.Clone()}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return &Schedule{dim: dim, segments: sorted}, nil
}

// Constant returns a schedule that always yields v.
func Constant(v dynamo.Vector) *Schedule {
	return &Schedule{dim: len(v), segments: []Segment{{Start: 0, Velocity: v.Clone()}}}
}

func (s *Schedule) Dim() int { return s.dim }

// At returns the desired velocity at time t.
func (s *Schedule) At(t float64) dynamo.Vector {
	idx := sort.Search(len(s.segments), func(i int) bool { return s.segments[i].Start > t })
	if idx == 0 {
		return make(dynamo.Vector, s.dim)
	}
	return s.segments[idx-1].Velocity.Clone()
}
