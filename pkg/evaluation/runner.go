package evaluation

import (
	"context"

	"github.com/google/uuid"

	"github.com/kaumanns/evolve-a-query/pkg/evolution"
	"github.com/kaumanns/evolve-a-query/pkg/logging"
)

// RunnerConfig holds the generational schedule of an evolution run.
type RunnerConfig struct {
	// MaxGenerations bounds the number of evaluate-and-evolve cycles.
	MaxGenerations int

	// RecombinationMode selects the offspring strategy.
	RecombinationMode evolution.RecombinationMode

	// DeduplicateEvery runs duplicate removal every n generations; zero
	// disables it.
	DeduplicateEvery int

	// PurgeCount removes this many random queries per generation to keep
	// diversity pressure up; zero disables it. Purging is skipped while the
	// population is not strictly larger than the count.
	PurgeCount int

	// StagnationLimit stops the run after this many generations without an
	// improvement of the average score; zero disables the check.
	StagnationLimit int
}

// DefaultRunnerConfig returns the default generational schedule.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		MaxGenerations:    10,
		RecombinationMode: evolution.ModeClone,
		DeduplicateEvery:  2,
		PurgeCount:        0,
		StagnationLimit:   3,
	}
}

// Report summarizes a finished run.
type Report struct {
	RunID          string
	Generations    int
	PopulationSize int
	AverageScore   float64
	Best           *evolution.Query // nil when the population collapsed
}

// Runner drives the generation cycle: evaluate, select, recombine, mutate,
// and the optional deduplication and purge passes. The engine guarantees the
// invariants of each individual operation; the runner owns their ordering.
type Runner struct {
	config    RunnerConfig
	evaluator *Evaluator
}

// NewRunner creates a runner with the given schedule.
func NewRunner(config RunnerConfig, evaluator *Evaluator) *Runner {
	return &Runner{
		config:    config,
		evaluator: evaluator,
	}
}

// Run evolves the population until the generation budget is spent, the
// average score stagnates, or the population collapses. Errors from
// evaluation or from the engine abort the run immediately; nothing is
// retried or swallowed.
func (r *Runner) Run(ctx context.Context, qs *evolution.Queries) (*Report, error) {
	logger := logging.GetLogger()

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)

	logger.Info(ctx, "starting evolution run: population=%d, max_generations=%d, mode=%s",
		qs.Size(),
		r.config.MaxGenerations,
		r.config.RecombinationMode)

	bestAverage := 0.0
	stagnation := 0
	generations := 0

	for generation := 0; generation < r.config.MaxGenerations; generation++ {
		gctx := logging.WithGeneration(ctx, generation)
		generations = generation + 1

		if err := r.evaluator.EvaluateGeneration(gctx, qs); err != nil {
			return nil, err
		}

		average := qs.AverageScore()
		logger.Info(gctx, "generation scored: size=%d, average=%.4f, best=%.4f",
			qs.Size(), average, bestFitness(qs))

		if average > bestAverage {
			bestAverage = average
			stagnation = 0
		} else {
			stagnation++
		}

		if r.config.StagnationLimit > 0 && stagnation >= r.config.StagnationLimit {
			logger.Info(gctx, "converged after %d generations without improvement", stagnation)
			break
		}

		// The final generation is only scored, never evolved past.
		if generation == r.config.MaxGenerations-1 {
			break
		}

		qs.Select()
		if qs.Size() == 0 {
			logger.Warn(gctx, "population collapsed under selection")
			break
		}

		if err := qs.Recombine(r.config.RecombinationMode); err != nil {
			return nil, err
		}

		qs.Mutate()
		if qs.Size() == 0 {
			logger.Warn(gctx, "population collapsed under mutation")
			break
		}

		if r.config.DeduplicateEvery > 0 && (generation+1)%r.config.DeduplicateEvery == 0 {
			before := qs.Size()
			qs.RemoveDuplicates()
			logger.Debug(gctx, "deduplication removed %d queries", before-qs.Size())
		}

		if r.config.PurgeCount > 0 && qs.Size() > r.config.PurgeCount {
			if err := qs.RandomPurge(r.config.PurgeCount); err != nil {
				return nil, err
			}
		}
	}

	report := &Report{
		RunID:          runID,
		Generations:    generations,
		PopulationSize: qs.Size(),
		AverageScore:   qs.AverageScore(),
	}
	if sorted := qs.SortedQueries(); len(sorted) > 0 {
		report.Best = sorted[0]
	}

	logger.Info(ctx, "run finished: generations=%d, population=%d, average=%.4f",
		report.Generations, report.PopulationSize, report.AverageScore)

	return report, nil
}

func bestFitness(qs *evolution.Queries) float64 {
	sorted := qs.SortedQueries()
	if len(sorted) == 0 {
		return 0.0
	}
	return sorted[0].Fitness()
}
