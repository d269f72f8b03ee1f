package sim

import (
	"github.com/san-kum/passiveds/internal/dynamo"
)

// Plant is a system whose velocity can be measured.
type Plant interface {
	dynamo.System
	dynamo.VelocitySensor
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Result holds one run. States and Times have one more entry than the
// per-cycle slices: the final plant state after the last cycle.
type Result struct {
	Times         []float64
	States        []dynamo.Vector
	Velocities    []dynamo.Vector
	Desired       []dynamo.Vector
	Efforts       []dynamo.Vector
	Metrics       map[string]float64
	InitialEnergy float64
	FinalEnergy   float64
	StepsTaken    int
}
