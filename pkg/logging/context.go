package logging

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	generationKey contextKey = "generation"
)

// WithRunID attaches an evolution run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID extracts the run identifier from the context, if present.
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok
}

// WithGeneration attaches the current generation number to the context.
func WithGeneration(ctx context.Context, generation int) context.Context {
	return context.WithValue(ctx, generationKey, generation)
}

// GetGeneration extracts the generation number from the context, if present.
func GetGeneration(ctx context.Context) (int, bool) {
	generation, ok := ctx.Value(generationKey).(int)
	return generation, ok
}
