package evolution

import (
	"fmt"
	"strings"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
)

// RecombinationMode selects the strategy used to produce offspring from the
// current generation.
type RecombinationMode int

const (
	// ModeClone deep-copies every current individual and appends the copies,
	// doubling the population.
	ModeClone RecombinationMode = iota
)

// String provides a human-readable mode name.
func (m RecombinationMode) String() string {
	switch m {
	case ModeClone:
		return "CLONE"
	default:
		return fmt.Sprintf("RecombinationMode(%d)", int(m))
	}
}

// ParseRecombinationMode resolves a case-insensitive mode name, as used in
// configuration files, to its mode constant.
func ParseRecombinationMode(name string) (RecombinationMode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CLONE":
		return ModeClone, nil
	default:
		return 0, errors.WithFields(
			errors.New(errors.UnknownRecombinationMode, "unknown recombination mode"),
			errors.Fields{"mode": name},
		)
	}
}

// recombinant produces offspring from the current generation without
// modifying it.
type recombinant func(qs *Queries) []*Query

// recombinants dispatches each mode to its strategy. Adding a mode means
// adding a constant above and registering its handler here; Recombine's
// signature stays untouched.
var recombinants = map[RecombinationMode]recombinant{
	ModeClone: recombineClone,
}

func recombineClone(qs *Queries) []*Query {
	offspring := make([]*Query, 0, qs.Size())
	for _, query := range qs.Queries() {
		offspring = append(offspring, query.Clone())
	}
	return offspring
}
