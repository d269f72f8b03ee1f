package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// Run describes one independent simulation in an ensemble. Each run must
// own its simulator: controllers are not safe for concurrent use.
type Run struct {
	Name string
	Sim  *Simulator
	X0   dynamo.Vector
	Cfg  Config
}

// Ensemble runs independent simulations concurrently.
type Ensemble struct {
	runs  []Run
	limit int
}

func NewEnsemble(limit int, runs ...Run) *Ensemble {
	return &Ensemble{runs: runs, limit: limit}
}

// Run executes every run and returns results in the order the runs were
// given. The first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.runs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, r := range e.runs {
		i, r := i, r
		g.Go(func() error {
			res, err := r.Sim.Run(ctx, r.X0, r.Cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
