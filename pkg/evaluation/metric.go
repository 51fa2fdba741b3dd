package evaluation

import (
	"context"

	"github.com/kaumanns/evolve-a-query/pkg/evolution"
	"github.com/kaumanns/evolve-a-query/pkg/index"
)

// Metric derives the fitness of a single query from the index. Higher is
// better. Metrics are pure readers: they never modify the query.
type Metric func(ctx context.Context, idx index.Index, query *evolution.Query) (float64, error)

// TopScoreMetric scores a query by the relevance of its best hit across the
// whole index; a query with no hits scores zero.
func TopScoreMetric(size int) Metric {
	return func(ctx context.Context, idx index.Index, query *evolution.Query) (float64, error) {
		result, err := idx.Search(ctx, query.Body(), size)
		if err != nil {
			return 0, err
		}
		return result.MaxScore, nil
	}
}

// TargetDocumentMetric scores a query by its explained relevance against one
// target document: the objective is to evolve queries that retrieve that
// document well.
func TargetDocumentMetric(docID string) Metric {
	return func(ctx context.Context, idx index.Index, query *evolution.Query) (float64, error) {
		expl, err := idx.Explain(ctx, query.Body(), docID)
		if err != nil {
			return 0, err
		}
		return expl.Value, nil
	}
}
