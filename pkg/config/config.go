package config

import (
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
)

// Config is the complete configuration of an evolution run.
type Config struct {
	// Index configuration
	Index IndexConfig `yaml:"index" validate:"required"`

	// Vocabulary configuration
	Vocabulary VocabularyConfig `yaml:"vocabulary,omitempty" validate:"omitempty"`

	// Evolution configuration
	Evolution EvolutionConfig `yaml:"evolution" validate:"required"`

	// Evaluation configuration
	Evaluation EvaluationConfig `yaml:"evaluation" validate:"required"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`
}

// IndexConfig locates the embedded search index.
type IndexConfig struct {
	// Path of the index directory on disk. Ignored when InMemory is set.
	Path string `yaml:"path" validate:"required_without=InMemory"`

	// InMemory keeps the index in memory only, for tests and dry runs.
	InMemory bool `yaml:"in_memory,omitempty"`
}

// VocabularyConfig locates the persistent word-frequency store.
type VocabularyConfig struct {
	// StorePath of the vocabulary database. Empty means vocabulary is
	// rebuilt from the index on each run.
	StorePath string `yaml:"store_path,omitempty"`

	// InMemory keeps the store in memory only.
	InMemory bool `yaml:"in_memory,omitempty"`

	// MinWordLength drops shorter tokens during extraction.
	MinWordLength int `yaml:"min_word_length,omitempty" validate:"omitempty,min=1"`
}

// EvolutionConfig shapes the query population.
type EvolutionConfig struct {
	// PopulationSize is the number of randomly seeded starting queries.
	PopulationSize int `yaml:"population_size" validate:"required,min=1"`

	// TermsPerQuery is the number of words drawn for each starting query.
	TermsPerQuery int `yaml:"terms_per_query,omitempty" validate:"omitempty,min=1"`

	// RecombinationMode names the offspring strategy.
	RecombinationMode string `yaml:"recombination_mode,omitempty" validate:"omitempty,recombination_mode"`

	// Seed fixes the random source for reproducible runs; zero draws a
	// fresh seed.
	Seed int64 `yaml:"seed,omitempty"`
}

// EvaluationConfig shapes the generation schedule and the fitness metric.
type EvaluationConfig struct {
	// MaxGenerations bounds the run.
	MaxGenerations int `yaml:"max_generations" validate:"required,min=1"`

	// Concurrency bounds parallel fitness evaluations.
	Concurrency int `yaml:"concurrency,omitempty" validate:"omitempty,min=1"`

	// Metric selects the fitness function.
	Metric string `yaml:"metric,omitempty" validate:"omitempty,oneof=top_score target_document"`

	// TargetDocumentID is the document the target_document metric scores
	// against.
	TargetDocumentID string `yaml:"target_document_id,omitempty"`

	// SearchSize is the result window of the top_score metric.
	SearchSize int `yaml:"search_size,omitempty" validate:"omitempty,min=1"`

	// DeduplicateEvery runs duplicate removal every n generations; zero
	// disables it.
	DeduplicateEvery int `yaml:"deduplicate_every,omitempty" validate:"omitempty,min=0"`

	// PurgeCount removes this many random queries per generation; zero
	// disables purging.
	PurgeCount int `yaml:"purge_count,omitempty" validate:"omitempty,min=0"`

	// StagnationLimit stops the run after this many generations without
	// improvement; zero disables the check.
	StagnationLimit int `yaml:"stagnation_limit,omitempty" validate:"omitempty,min=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum severity to emit (DEBUG, INFO, WARN, ERROR).
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`
}

// Default returns the default configuration. The zero-value metric scores a
// query by its best hit, which needs no target document.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Path: "data/index.bleve",
		},
		Vocabulary: VocabularyConfig{
			StorePath:     "data/vocabulary",
			MinWordLength: 2,
		},
		Evolution: EvolutionConfig{
			PopulationSize:    20,
			TermsPerQuery:     3,
			RecombinationMode: "clone",
		},
		Evaluation: EvaluationConfig{
			MaxGenerations:   10,
			Concurrency:      4,
			Metric:           "top_score",
			SearchSize:       10,
			DeduplicateEvery: 2,
			StagnationLimit:  3,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to read config file"),
			errors.Fields{"path": path},
		)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to parse config file"),
			errors.Fields{"path": path},
		)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("recombination_mode", validateRecombinationMode)
	})

	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "invalid configuration"),
				errors.Fields{
					"field":      first.Namespace(),
					"constraint": first.Tag(),
				},
			)
		}
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}

	if c.Evaluation.Metric == "target_document" && c.Evaluation.TargetDocumentID == "" {
		return errors.New(errors.ValidationFailed,
			"target_document metric requires evaluation.target_document_id")
	}
	return nil
}
