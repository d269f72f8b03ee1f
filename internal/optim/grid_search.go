package optim

import (
	"context"
	"math"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/passiveds/internal/sim"
)

// Builder turns one grid point into an independent run.
type Builder func(params map[string]float64) (sim.Run, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, limit: runtime.NumCPU()}
}

// Points enumerates the cartesian product of the ranges.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[depth]))
		for _, p := range points {
			for _, val := range g.ranges[depth] {
				q := make(map[string]float64, len(p)+1)
				for k, v := range p {
					q[k] = v
				}
				q[name] = val
				next = append(next, q)
			}
		}
		points = next
	}
	return points
}

// Search runs every grid point and returns the one with the lowest value of
// metricName. Points that fail to build or whose run stops early are
// skipped; an error is returned only when none succeed.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, errors.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	runs := make([]sim.Run, 0, len(points))
	kept := make([]map[string]float64, 0, len(points))
	for _, p := range points {
		r, err := build(p)
		if err != nil {
			continue
		}
		runs = append(runs, r)
		kept = append(kept, p)
	}

	// failures are per point, so the group never cancels
	results := make([]*sim.Result, len(runs))
	var group errgroup.Group
	group.SetLimit(g.limit)
	for i, r := range runs {
		i, r := i, r
		group.Go(func() error {
			res, err := r.Sim.Run(ctx, r.X0, r.Cfg)
			if err == nil {
				results[i] = res
			}
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for i, res := range results {
		if res == nil {
			continue
		}
		val, ok := res.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			continue
		}
		if val < best {
			best = val
			bestParams = kept[i]
		}
	}
	if bestParams == nil {
		return nil, 0, errors.Errorf("optim: no grid point produced %q", metricName)
	}
	return bestParams, best, nil
}
