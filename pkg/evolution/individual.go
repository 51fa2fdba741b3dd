package evolution

import "math/rand"

// Individual represents a single candidate solution in an evolutionary search.
type Individual interface {
	// Size returns the number of structural elements of the individual.
	// An individual with size zero is non-viable.
	Size() int

	// Mutate perturbs the individual in place, drawing replacement material
	// from the given word pool. The result may be empty.
	Mutate(rng *rand.Rand, words []string)

	// Key returns the canonical representation of the individual's structure.
	// Two individuals with identical structure produce identical keys, no
	// matter their fitness.
	Key() string
}
