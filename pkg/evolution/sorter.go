package evolution

import "sort"

// sortedView caches a sorted copy of a collection, keyed by a float score.
// The cache is recomputed only after an explicit invalidation, so every
// operation that changes the underlying collection (or its scores) must call
// invalidate. Serving a stale view after such a change is a correctness bug,
// which is why staleness is tracked with an explicit dirty flag instead of
// being derived from content.
type sortedView[T any] struct {
	key     func(T) float64
	reverse bool
	cache   []T
	dirty   bool
}

func newSortedView[T any](key func(T) float64, reverse bool) *sortedView[T] {
	return &sortedView[T]{
		key:     key,
		reverse: reverse,
		dirty:   true,
	}
}

// invalidate marks the cached order as stale.
func (v *sortedView[T]) invalidate() {
	v.dirty = true
}

// view returns the items sorted by key. The input is never reordered; the
// returned slice is the cached copy.
func (v *sortedView[T]) view(items []T) []T {
	if !v.dirty && v.cache != nil {
		return v.cache
	}

	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		if v.reverse {
			return v.key(sorted[i]) > v.key(sorted[j])
		}
		return v.key(sorted[i]) < v.key(sorted[j])
	})

	v.cache = sorted
	v.dirty = false

	return v.cache
}
