package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queriesWithFitness(values ...float64) []*Query {
	queries := make([]*Query, len(values))
	for i, v := range values {
		queries[i] = NewQuery("term")
		queries[i].SetFitness(v)
	}
	return queries
}

func TestSortedViewDescending(t *testing.T) {
	view := newSortedView(func(q *Query) float64 { return q.Fitness() }, true)
	items := queriesWithFitness(1, 5, 3)

	sorted := view.view(items)

	require.Len(t, sorted, 3)
	assert.Equal(t, 5.0, sorted[0].Fitness())
	assert.Equal(t, 3.0, sorted[1].Fitness())
	assert.Equal(t, 1.0, sorted[2].Fitness())

	// Input order is untouched.
	assert.Equal(t, 1.0, items[0].Fitness())
}

func TestSortedViewAscending(t *testing.T) {
	view := newSortedView(func(q *Query) float64 { return q.Fitness() }, false)

	sorted := view.view(queriesWithFitness(2, 1, 3))

	assert.Equal(t, 1.0, sorted[0].Fitness())
	assert.Equal(t, 3.0, sorted[2].Fitness())
}

func TestSortedViewCachesUntilInvalidated(t *testing.T) {
	view := newSortedView(func(q *Query) float64 { return q.Fitness() }, true)
	items := queriesWithFitness(1, 2)

	first := view.view(items)
	assert.Equal(t, 2.0, first[0].Fitness())

	// A score change without invalidation serves the cached order.
	items[0].SetFitness(10)
	stale := view.view(items)
	assert.Equal(t, 2.0, stale[0].Fitness())

	view.invalidate()
	fresh := view.view(items)
	assert.Equal(t, 10.0, fresh[0].Fitness())
}
