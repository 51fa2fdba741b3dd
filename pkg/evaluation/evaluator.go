package evaluation

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
	"github.com/kaumanns/evolve-a-query/pkg/evolution"
	"github.com/kaumanns/evolve-a-query/pkg/index"
)

const defaultConcurrency = 4

// Evaluator assigns fitness to a whole generation of queries.
type Evaluator struct {
	index       index.Index
	metric      Metric
	concurrency int
}

// NewEvaluator creates an evaluator over the given index and metric.
// Concurrency values below one fall back to the default.
func NewEvaluator(idx index.Index, metric Metric, concurrency int) *Evaluator {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	return &Evaluator{
		index:       idx,
		metric:      metric,
		concurrency: concurrency,
	}
}

// EvaluateGeneration scores every query with bounded parallelism. All scores
// are committed together after the pool drains, and the engine's sorted view
// is invalidated exactly once — selection and sorting never observe a
// half-scored generation. On any metric error no score is committed.
func (e *Evaluator) EvaluateGeneration(ctx context.Context, qs *evolution.Queries) error {
	if err := errors.CheckContext(ctx, "generation evaluation"); err != nil {
		return err
	}

	queries := qs.Queries()
	scores := make([]float64, len(queries))

	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithMaxGoroutines(e.concurrency)

	for i := range queries {
		p.Go(func(ctx context.Context) error {
			score, err := e.metric(ctx, e.index, queries[i])
			if err != nil {
				return errors.WithFields(
					errors.Wrap(err, errors.SearchFailed, "fitness evaluation failed"),
					errors.Fields{"query_id": queries[i].ID()},
				)
			}
			scores[i] = score
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	for i, query := range queries {
		query.SetFitness(scores[i])
	}
	qs.InvalidateSortedView()

	return nil
}
