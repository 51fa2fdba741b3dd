package evolution

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Query is a single candidate search query in the population.
//
// A query carries an ordered sequence of terms and a fitness value. Fitness
// is always assigned by the driver after scoring the query against an index;
// it stays at zero until the first evaluation and is never computed here.
type Query struct {
	id      string
	terms   []string
	fitness float64
}

// NewQuery creates a query from the given terms.
func NewQuery(terms ...string) *Query {
	owned := make([]string, len(terms))
	copy(owned, terms)

	return &Query{
		id:    uuid.New().String(),
		terms: owned,
	}
}

// ID returns the unique identifier of this query.
func (q *Query) ID() string {
	return q.id
}

// Terms returns a copy of the query's term sequence.
func (q *Query) Terms() []string {
	terms := make([]string, len(q.terms))
	copy(terms, q.terms)
	return terms
}

// Size returns the number of terms. A query with size zero is non-viable.
func (q *Query) Size() int {
	return len(q.terms)
}

// Fitness returns the externally assigned retrieval quality score.
func (q *Query) Fitness() float64 {
	return q.fitness
}

// SetFitness assigns the retrieval quality score for this query.
func (q *Query) SetFitness(fitness float64) {
	q.fitness = fitness
}

// Body returns the query in the form consumed by the index's search and
// explain operations: terms joined into a query string, matching documents
// that contain any of them.
func (q *Query) Body() string {
	return strings.Join(q.terms, " ")
}

// Key returns the canonical representation used as the deduplication key.
// It covers term content only; fitness is not part of query identity.
func (q *Query) Key() string {
	return strings.Join(q.terms, "\x1f")
}

// Clone returns a deep copy of the query with a fresh identifier. The copy
// owns its own term sequence, so mutating it never touches the original.
// Fitness carries over.
func (q *Query) Clone() *Query {
	clone := NewQuery(q.terms...)
	clone.fitness = q.fitness
	return clone
}

// Mutate applies one random structural operation to the query: adding a word
// from the pool, removing a term, or replacing a term with a word from the
// pool. The operation is stochastic; the result may be empty, which signals
// non-viability to the caller.
func (q *Query) Mutate(rng *rand.Rand, words []string) {
	const (
		opAdd = iota
		opRemove
		opReplace
		opCount
	)

	op := rng.Intn(opCount)

	// Degenerate inputs constrain the choice: nothing to remove or replace
	// in an empty query, nothing to add or substitute from an empty pool.
	if len(q.terms) == 0 {
		op = opAdd
	}
	if len(words) == 0 {
		if len(q.terms) == 0 {
			return
		}
		op = opRemove
	}

	switch op {
	case opAdd:
		word := words[rng.Intn(len(words))]
		at := rng.Intn(len(q.terms) + 1)
		q.terms = append(q.terms[:at], append([]string{word}, q.terms[at:]...)...)
	case opRemove:
		at := rng.Intn(len(q.terms))
		q.terms = append(q.terms[:at], q.terms[at+1:]...)
	case opReplace:
		q.terms[rng.Intn(len(q.terms))] = words[rng.Intn(len(words))]
	}
}

// String renders the query for logging.
func (q *Query) String() string {
	return fmt.Sprintf("Query(%q, fitness=%.4f)", q.Body(), q.fitness)
}
