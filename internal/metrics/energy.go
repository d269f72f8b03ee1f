package metrics

import (
	"math"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// EnergyGrowth is the largest rise of the plant energy above its value at
// the first observed cycle. A passive controller holding a zero desired
// velocity keeps it at zero.
type EnergyGrowth struct {
	name    string
	plant   dynamo.Hamiltonian
	initial float64
	growth  float64
	samples int
}

func NewEnergyGrowth(plant dynamo.Hamiltonian) *EnergyGrowth {
	return &EnergyGrowth{
		name:  "energy_growth",
		plant: plant,
	}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(s dynamo.Sample) {
	energy := e.plant.Energy(s.State)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	e.growth = math.Max(e.growth, energy-e.initial)
}

func (e *EnergyGrowth) Value() float64 {
	return e.growth
}

func (e *EnergyGrowth) Reset() {
	e.initial = 0
	e.growth = 0
	e.samples = 0
}

// Work integrates the mechanical power uᵀv delivered by the controller,
// holding each cycle's power until the next sample.
type Work struct {
	name     string
	total    float64
	prevT    float64
	prevP    float64
	observed bool
}

func NewWork() *Work {
	return &Work{name: "work"}
}

func (w *Work) Name() string { return w.name }

func (w *Work) Observe(s dynamo.Sample) {
	if w.observed {
		w.total += w.prevP * (s.Time - w.prevT)
	}
	w.prevT = s.Time
	w.prevP = s.Effort.Dot(s.Current)
	w.observed = true
}

func (w *Work) Value() float64 {
	return w.total
}

func (w *Work) Reset() {
	w.total = 0
	w.prevT = 0
	w.prevP = 0
	w.observed = false
}
