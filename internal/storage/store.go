package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/passiveds/internal/sim"
)

const (
	metadataFile = "metadata.json"
	cyclesFile   = "cycles.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Controller    string             `json:"controller"`
	Dim           int                `json:"dim"`
	Eigenvalues   []float64          `json:"eigenvalues,omitempty"`
	Seed          int64              `json:"seed"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Integrator    string             `json:"integrator"`
	Steps         int                `json:"steps"`
	InitialEnergy float64            `json:"initial_energy"`
	FinalEnergy   float64            `json:"final_energy"`
	Metrics       map[string]float64 `json:"metrics"`
	// Error is set when the run stopped early.
	Error string `json:"error,omitempty"`
}

// Series is the per-cycle record of a run.
type Series struct {
	Times   []float64
	Current [][]float64
	Desired [][]float64
	Effort  [][]float64
}

// Save writes meta and the cycles of result into a new run directory and
// returns the run id. ID, Timestamp, Steps and the energies are filled in
// from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%s_%d", meta.Name, meta.Controller, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.InitialEnergy = result.InitialEnergy
	meta.FinalEnergy = result.FinalEnergy
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", errors.Wrap(err, "create metadata")
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "write metadata")
	}

	csvFile, err := os.Create(filepath.Join(runDir, cyclesFile))
	if err != nil {
		return "", errors.Wrap(err, "create cycles")
	}
	defer csvFile.Close()

	if err := WriteCycles(csvFile, result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteCycles writes one CSV row per cycle: time, current velocity, desired
// velocity and effort.
func WriteCycles(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	n := 0
	if len(result.Velocities) > 0 {
		n = len(result.Velocities[0])
	}

	header := []string{"time"}
	for _, prefix := range []string{"v", "vd", "u"} {
		for i := 0; i < n; i++ {
			header = append(header, fmt.Sprintf("%s%d", prefix, i))
		}
	}
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i := range result.Velocities {
		row := make([]string, 0, 1+3*n)
		row = append(row, formatFloat(result.Times[i]))
		for _, vec := range [][]float64{result.Velocities[i], result.Desired[i], result.Efforts[i]} {
			for _, val := range vec {
				row = append(row, formatFloat(val))
			}
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write cycle %d", i)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s: decode metadata", runID)
	}
	return &meta, nil
}

// CyclesPath is the CSV file of a run.
func (s *Store) CyclesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, cyclesFile)
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(s.CyclesPath(runID))
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "run %s: read cycles", runID)
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}
	n := (len(records[0]) - 1) / 3

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "run %s: cycle %d column %d", runID, i, j)
			}
			vals[j] = v
		}
		series.Times = append(series.Times, vals[0])
		series.Current = append(series.Current, vals[1:1+n])
		series.Desired = append(series.Desired, vals[1+n:1+2*n])
		series.Effort = append(series.Effort, vals[1+2*n:1+3*n])
	}
	return series, nil
}

// Column returns component i of each row, or nil when out of range.
func Column(rows [][]float64, i int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if i >= len(row) {
			return nil
		}
		out = append(out, row[i])
	}
	return out
}

// Norms returns the Euclidean norm of each row.
func Norms(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = floats.Norm(row, 2)
	}
	return out
}
