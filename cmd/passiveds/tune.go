package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/passiveds/internal/optim"
	"github.com/san-kum/passiveds/internal/sim"
)

var (
	tuneParams []string
	tuneMetric string
)

// parseRange reads name=v1,v2,...
func parseRange(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || name == "" || list == "" {
		return "", nil, errors.Errorf("parameter %q is not name=v1,v2,...", spec)
	}
	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, errors.Wrapf(err, "parameter %s", name)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func tuneController(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return errors.New("at least one --param is required")
	}
	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, spec := range tuneParams {
		name, values, err := parseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	build := func(params map[string]float64) (sim.Run, error) {
		c := cfg.Clone()
		for k, v := range params {
			if err := c.SetParam(k, v); err != nil {
				return sim.Run{}, err
			}
		}
		if err := c.Validate(); err != nil {
			return sim.Run{}, err
		}
		s, plant, ctrl, err := c.BuildSimulator("", nil)
		if err != nil {
			return sim.Run{}, err
		}
		attachMetrics(s, plant, ctrl)
		return sim.Run{Sim: s, X0: c.InitialState(), Cfg: c.SimConfig()}, nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(names, ranges)
	fmt.Printf("searching %d points for lowest %s\n", len(g.Points()), tuneMetric)
	best, val, err := g.Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}

	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-10s %g\n", name, best[name])
	}
	fmt.Printf("%s: %.6f\n", tuneMetric, val)
	return nil
}
