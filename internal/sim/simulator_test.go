package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
	"github.com/san-kum/passiveds/internal/integrators"
	"github.com/san-kum/passiveds/internal/physics"
)

type testController struct{}

func (t *testController) Step(current, desired dynamo.Vector) (dynamo.Vector, error) {
	return desired.Sub(current), nil
}

type failingController struct{ after int }

func (f *failingController) Step(current, desired dynamo.Vector) (dynamo.Vector, error) {
	if f.after == 0 {
		return nil, control.ErrNonFinite
	}
	f.after--
	return make(dynamo.Vector, len(current)), nil
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s dynamo.Sample) {
	t.count++
	t.sum += s.Current[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorRun(t *testing.T) {
	plant := physics.NewPointMass(1)
	sim := New(plant, integrators.NewEuler(), &testController{}, Constant(dynamo.Vector{0}))

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), plant.State(nil, dynamo.Vector{1}), cfg)
	require.NoError(t, err)

	assert.Len(t, result.States, 11)
	assert.Len(t, result.Times, 11)
	assert.Len(t, result.Efforts, 10)
	assert.Equal(t, 10, result.StepsTaken)

	// v' = -v under this controller
	final := result.States[len(result.States)-1][1]
	assert.InDelta(t, math.Exp(-1.0), final, 0.05)
	assert.Less(t, result.FinalEnergy, result.InitialEnergy)
}

func TestSimulatorInvalidConfig(t *testing.T) {
	plant := physics.NewPointMass(1)
	sim := New(plant, integrators.NewEuler(), &testController{}, Constant(dynamo.Vector{0}))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), dynamo.Vector{0, 1}, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	plant := physics.NewPointMass(2)
	sim := New(plant, integrators.NewEuler(), &testController{}, Constant(dynamo.Vector{0, 0}))

	_, err := sim.Run(context.Background(), dynamo.Vector{0, 1}, DefaultConfig())
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)

	sim = New(plant, integrators.NewEuler(), &testController{}, Constant(dynamo.Vector{0}))
	_, err = sim.Run(context.Background(), make(dynamo.Vector, 4), DefaultConfig())
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestSimulatorMetrics(t *testing.T) {
	plant := physics.NewPointMass(1)
	sim := New(plant, integrators.NewEuler(), &testController{}, Constant(dynamo.Vector{0}))

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), dynamo.Vector{0, 1}, Config{Dt: 0.1, Duration: 1.0})
	require.NoError(t, err)

	_, ok := result.Metrics["test"]
	assert.True(t, ok, "metric not found in result")
	assert.Equal(t, 10, metric.count)
}

func TestSimulatorStepError(t *testing.T) {
	plant := physics.NewPointMass(1)
	sim := New(plant, integrators.NewEuler(), &failingController{after: 3}, Constant(dynamo.Vector{1}))

	result, err := sim.Run(context.Background(), dynamo.Vector{0, 0}, Config{Dt: 0.1, Duration: 1.0})
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 3, stepErr.Step)
	assert.ErrorIs(t, err, control.ErrNonFinite)
	assert.Equal(t, 3, result.StepsTaken)
}

func TestSimulatorCanceled(t *testing.T) {
	plant := physics.NewPointMass(1)
	sim := New(plant, integrators.NewEuler(), &testController{}, Constant(dynamo.Vector{0}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, dynamo.Vector{0, 1}, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.StepsTaken)
}

func TestPassiveTracking(t *testing.T) {
	plant := physics.NewPointMass(2)
	ctrl, err := control.New(2, []float64{8, 2}, control.WithSeed(1))
	require.NoError(t, err)

	desired := dynamo.Vector{1, 0.5}
	sim := New(plant, integrators.NewRK4(), ctrl, Constant(desired))

	result, err := sim.Run(context.Background(), plant.State(nil, nil), Config{Dt: 0.01, Duration: 5})
	require.NoError(t, err)

	final := plant.Velocity(result.States[len(result.States)-1])
	assert.InDelta(t, desired[0], final[0], 1e-2)
	assert.InDelta(t, desired[1], final[1], 1e-2)
}

func TestPassiveHoldDissipates(t *testing.T) {
	plant := physics.NewPointMass(3)
	ctrl, err := control.New(3, []float64{4, 1}, control.WithSeed(2))
	require.NoError(t, err)

	sim := New(plant, integrators.NewRK4(), ctrl, Constant(make(dynamo.Vector, 3)))
	result, err := sim.Run(context.Background(), plant.State(nil, dynamo.Vector{1, -2, 0.5}), Config{Dt: 0.01, Duration: 2})
	require.NoError(t, err)

	prev := math.Inf(1)
	for _, x := range result.States {
		e := plant.Energy(x)
		assert.LessOrEqual(t, e, prev+1e-12, "energy must not grow without a desired velocity")
		prev = e
	}
}
