package evolution

// Population is an ordered, homogeneous collection of individuals. It is a
// structural container only: no selection or validation logic lives here.
// Duplicates are allowed unless a caller removes them explicitly.
type Population[T Individual] struct {
	individuals []T
}

// NewPopulation creates a population from an initial set of individuals.
func NewPopulation[T Individual](individuals ...T) *Population[T] {
	owned := make([]T, len(individuals))
	copy(owned, individuals)
	return &Population[T]{individuals: owned}
}

// Add appends individuals to the population.
func (p *Population[T]) Add(individuals ...T) {
	p.individuals = append(p.individuals, individuals...)
}

// Individuals returns the backing sequence. Specializing containers re-expose
// this under a domain name; mutations through the returned slice are visible
// to the population.
func (p *Population[T]) Individuals() []T {
	return p.individuals
}

// Replace swaps the backing sequence for a new one.
func (p *Population[T]) Replace(individuals []T) {
	p.individuals = individuals
}

// Len returns the number of individuals.
func (p *Population[T]) Len() int {
	return len(p.individuals)
}
