package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/passiveds/internal/dynamo"
)

func TestScheduleAt(t *testing.T) {
	s, err := NewSchedule(2, []Segment{
		{Start: 2, Velocity: dynamo.Vector{0, 1}},
		{Start: 0.5, Velocity: dynamo.Vector{1, 0}},
	})
	require.NoError(t, err)

	tests := []struct {
		t    float64
		want dynamo.Vector
	}{
		{0, dynamo.Vector{0, 0}},
		{0.5, dynamo.Vector{1, 0}},
		{1.9, dynamo.Vector{1, 0}},
		{2, dynamo.Vector{0, 1}},
		{100, dynamo.Vector{0, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.At(tt.t), "t=%v", tt.t)
	}
}

func TestScheduleRejectsBadSegments(t *testing.T) {
	_, err := NewSchedule(2, []Segment{{Start: 0, Velocity: dynamo.Vector{1}}})
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestScheduleReturnsCopies(t *testing.T) {
	s := Constant(dynamo.Vector{1, 2})
	v := s.At(0)
	v[0] = 7
	assert.Equal(t, dynamo.Vector{1, 2}, s.At(0))
}
