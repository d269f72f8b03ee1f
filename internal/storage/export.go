package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/passiveds/internal/dynamo"
	"github.com/san-kum/passiveds/internal/sim"
)

type ExportData struct {
	Meta    RunMetadata `json:"meta"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
	Current [][]float64 `json:"current"`
	Desired [][]float64 `json:"desired"`
	Efforts [][]float64 `json:"efforts"`
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Meta:    meta,
		Times:   result.Times,
		States:  rows(result.States),
		Current: rows(result.Velocities),
		Desired: rows(result.Desired),
		Efforts: rows(result.Efforts),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func rows(vs []dynamo.Vector) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
