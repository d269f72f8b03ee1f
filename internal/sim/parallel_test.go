package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/passiveds/internal/dynamo"
	"github.com/san-kum/passiveds/internal/integrators"
	"github.com/san-kum/passiveds/internal/physics"
)

func TestEnsembleOrder(t *testing.T) {
	runs := make([]Run, 0, 4)
	for i := 0; i < 4; i++ {
		plant := physics.NewPointMass(1)
		target := dynamo.Vector{float64(i)}
		runs = append(runs, Run{
			Name: "run",
			Sim:  New(plant, integrators.NewRK4(), &testController{}, Constant(target)),
			X0:   plant.State(nil, nil),
			Cfg:  Config{Dt: 0.01, Duration: 0.5},
		})
	}

	results, err := NewEnsemble(2, runs...).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, dynamo.Vector{float64(i)}, r.Desired[0])
	}
}

func TestEnsembleError(t *testing.T) {
	plant := physics.NewPointMass(1)
	runs := []Run{
		{Sim: New(plant, integrators.NewEuler(), &failingController{}, Constant(dynamo.Vector{1})), X0: dynamo.Vector{0, 0}, Cfg: Config{Dt: 0.1, Duration: 1}},
	}
	_, err := NewEnsemble(0, runs...).Run(context.Background())
	assert.Error(t, err)
}
