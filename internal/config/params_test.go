package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	cfg := GetPreset("track")
	cp := cfg.Clone()
	require.Equal(t, cfg, cp)

	cp.Controller.Eigenvalues[0] = 99
	cp.Setpoints[1].Velocity[1] = 99
	assert.Equal(t, 4.0, cfg.Controller.Eigenvalues[0])
	assert.Equal(t, 1.0, cfg.Setpoints[1].Velocity[1])
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Controller.Dim = 3
	cfg.Controller.Eigenvalues = []float64{4}

	require.NoError(t, cfg.SetParam("lambda2", 0.5))
	assert.Equal(t, []float64{4, 4, 0.5}, cfg.Controller.Eigenvalues)

	require.NoError(t, cfg.SetParam("lambda0", 6))
	assert.Equal(t, 6.0, cfg.Controller.Eigenvalues[0])

	require.NoError(t, cfg.SetParam("friction", 0.3))
	assert.Equal(t, 0.3, cfg.Plant.Friction)

	assert.Error(t, cfg.SetParam("lambda3", 1))
	assert.Error(t, cfg.SetParam("lambdax", 1))
	assert.Error(t, cfg.SetParam("gain", 1))
}
