package evolution

import (
	"math/rand"
	"time"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
)

// Queries manages a population of search queries across generations: fitness
// aggregation, recombination, mutation, selection, deduplication and random
// culling. Fitness evaluation itself happens outside, one generation at a
// time; Queries assumes scores are committed before Select, SortedQueries or
// AverageScore are called.
//
// The word pool is a shared, read-only reference supplied by the vocabulary
// collector. Queries never mutates it and does not own its lifetime.
type Queries struct {
	population *Population[*Query]
	words      []string
	rng        *rand.Rand
	sorted     *sortedView[*Query]
}

// Option configures a Queries engine.
type Option func(*Queries)

// WithRand sets the random source used for mutation and purging. Defaults to
// a time-seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(qs *Queries) {
		qs.rng = rng
	}
}

// NewQueries creates an engine over an initial population, drawing mutation
// material from the given word pool.
func NewQueries(words []string, queries []*Query, opts ...Option) *Queries {
	qs := &Queries{
		population: NewPopulation(queries...),
		words:      words,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sorted: newSortedView(func(q *Query) float64 {
			return q.Fitness()
		}, true),
	}

	for _, opt := range opts {
		opt(qs)
	}

	return qs
}

// Size returns the number of queries in the current generation.
func (qs *Queries) Size() int {
	return qs.population.Len()
}

// Queries returns the current generation in container order. This is the
// population's backing sequence under its domain name.
func (qs *Queries) Queries() []*Query {
	return qs.population.Individuals()
}

// SortedQueries returns all queries in descending fitness order. The view is
// cached and recomputed after any operation that changes the population.
func (qs *Queries) SortedQueries() []*Query {
	return qs.sorted.view(qs.population.Individuals())
}

// AverageScore returns the mean fitness over the current population, or 0.0
// for an empty population. The empty case is a defined result, not an error,
// so reporting and termination checks never divide by zero.
func (qs *Queries) AverageScore() float64 {
	if qs.population.Len() == 0 {
		return 0.0
	}

	sum := 0.0
	for _, query := range qs.population.Individuals() {
		sum += query.Fitness()
	}

	return sum / float64(qs.population.Len())
}

// Recombine produces offspring under the given mode and appends them to the
// population. Under ModeClone every individual is deep-copied, doubling the
// population. An unrecognized mode is a configuration error: proceeding with
// an undefined strategy would corrupt the generational step, so the error is
// returned instead of being logged and ignored.
func (qs *Queries) Recombine(mode RecombinationMode) error {
	strategy, ok := recombinants[mode]
	if !ok {
		return errors.WithFields(
			errors.New(errors.UnknownRecombinationMode, "recombination mode not implemented"),
			errors.Fields{"mode": mode.String()},
		)
	}

	qs.population.Add(strategy(qs)...)
	qs.sorted.invalidate()

	return nil
}

// Mutate applies one mutation pass to every query, drawing from the shared
// word pool, then filters out every query whose size dropped to zero. This
// is the single place where non-viable offspring are pruned. The filter is
// stable: survivors keep their pre-mutation order.
func (qs *Queries) Mutate() {
	survivors := make([]*Query, 0, qs.population.Len())

	for _, query := range qs.population.Individuals() {
		query.Mutate(qs.rng, qs.words)
		if query.Size() > 0 {
			survivors = append(survivors, query)
		}
	}

	qs.population.Replace(survivors)
	qs.sorted.invalidate()
}

// Select removes every query whose fitness equals the population minimum,
// ties included. When all queries share the same fitness, all of them are
// lowest by definition and the population empties; that aggressive pressure
// is part of the contract.
func (qs *Queries) Select() {
	if qs.population.Len() == 0 {
		return
	}

	lowest := qs.population.Individuals()[0].Fitness()
	for _, query := range qs.population.Individuals()[1:] {
		if query.Fitness() < lowest {
			lowest = query.Fitness()
		}
	}

	survivors := make([]*Query, 0, qs.population.Len())
	for _, query := range qs.population.Individuals() {
		if query.Fitness() > lowest {
			survivors = append(survivors, query)
		}
	}

	qs.population.Replace(survivors)
	qs.sorted.invalidate()
}

// RandomPurge removes k uniformly chosen queries, without replacement and
// regardless of fitness. A k larger than the population (or negative) is a
// caller bug about expected population size and is reported as an error, not
// silently clamped.
func (qs *Queries) RandomPurge(k int) error {
	if k < 0 || k > qs.population.Len() {
		return errors.WithFields(
			errors.New(errors.PurgeOutOfRange, "purge count out of range"),
			errors.Fields{"k": k, "size": qs.population.Len()},
		)
	}

	doomed := make(map[int]struct{}, k)
	for _, index := range qs.rng.Perm(qs.population.Len())[:k] {
		doomed[index] = struct{}{}
	}

	survivors := make([]*Query, 0, qs.population.Len()-k)
	for index, query := range qs.population.Individuals() {
		if _, gone := doomed[index]; !gone {
			survivors = append(survivors, query)
		}
	}

	qs.population.Replace(survivors)
	qs.sorted.invalidate()

	return nil
}

// RemoveDuplicates retains the first occurrence, in container order, of each
// structurally distinct query. Identity is the canonical key over term
// content only, so a later duplicate is dropped together with its fitness
// even when that fitness is higher.
func (qs *Queries) RemoveDuplicates() {
	seen := make(map[string]struct{}, qs.population.Len())
	survivors := make([]*Query, 0, qs.population.Len())

	for _, query := range qs.population.Individuals() {
		if _, dup := seen[query.Key()]; dup {
			continue
		}
		seen[query.Key()] = struct{}{}
		survivors = append(survivors, query)
	}

	qs.population.Replace(survivors)
	qs.sorted.invalidate()
}

// InvalidateSortedView marks the cached fitness order as stale. Drivers that
// assign fitness directly on queries must call this once per generation,
// after all scores are committed and before reading SortedQueries.
func (qs *Queries) InvalidateSortedView() {
	qs.sorted.invalidate()
}
