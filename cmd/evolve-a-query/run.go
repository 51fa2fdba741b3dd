package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaumanns/evolve-a-query/pkg/config"
	"github.com/kaumanns/evolve-a-query/pkg/errors"
	"github.com/kaumanns/evolve-a-query/pkg/evaluation"
	"github.com/kaumanns/evolve-a-query/pkg/evolution"
	"github.com/kaumanns/evolve-a-query/pkg/vocabulary"
)

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the evolution loop against a seeded index",
		Long: `Seed a random query population from the stored vocabulary and evolve
it against the index until the generation budget is spent or the average
score stagnates. Prints the best surviving query.`,
		Example: `  evolve-a-query run --config config.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			vocab, err := loadVocabulary(cfg)
			if err != nil {
				return err
			}

			idx, err := openIndex(cfg, vocab)
			if err != nil {
				return err
			}
			defer idx.Close()

			mode, err := evolution.ParseRecombinationMode(cfg.Evolution.RecombinationMode)
			if err != nil {
				return err
			}

			seed := cfg.Evolution.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))

			qs := seedPopulation(cfg, vocab, rng)

			metric, err := buildMetric(cfg)
			if err != nil {
				return err
			}

			runner := evaluation.NewRunner(evaluation.RunnerConfig{
				MaxGenerations:    cfg.Evaluation.MaxGenerations,
				RecombinationMode: mode,
				DeduplicateEvery:  cfg.Evaluation.DeduplicateEvery,
				PurgeCount:        cfg.Evaluation.PurgeCount,
				StagnationLimit:   cfg.Evaluation.StagnationLimit,
			}, evaluation.NewEvaluator(idx, metric, cfg.Evaluation.Concurrency))

			report, err := runner.Run(cmd.Context(), qs)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s finished after %d generations\n", report.RunID, report.Generations)
			fmt.Printf("Population: %d queries, average score %.4f\n",
				report.PopulationSize, report.AverageScore)
			if report.Best != nil {
				fmt.Printf("Best query: %q (score %.4f)\n", report.Best.Body(), report.Best.Fitness())
			} else {
				fmt.Println("Population collapsed; no query survived")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return cmd
}

func loadVocabulary(cfg *config.Config) (*vocabulary.Vocabulary, error) {
	if cfg.Vocabulary.StorePath == "" {
		return nil, errors.New(errors.InvalidInput,
			"no vocabulary store configured; set vocabulary.store_path and seed the index first")
	}

	store, err := vocabulary.OpenStore(cfg.Vocabulary.StorePath, cfg.Vocabulary.InMemory)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	vocab, err := store.Load()
	if err != nil {
		return nil, err
	}
	if vocab.Len() == 0 {
		return nil, errors.New(errors.InvalidInput,
			"vocabulary store is empty; seed the index first")
	}
	return vocab, nil
}

func seedPopulation(cfg *config.Config, vocab *vocabulary.Vocabulary, rng *rand.Rand) *evolution.Queries {
	words := vocab.Words()

	terms := cfg.Evolution.TermsPerQuery
	if terms < 1 {
		terms = 1
	}

	seed := make([]*evolution.Query, 0, cfg.Evolution.PopulationSize)
	for i := 0; i < cfg.Evolution.PopulationSize; i++ {
		drawn := make([]string, terms)
		for j := range drawn {
			drawn[j] = words[rng.Intn(len(words))]
		}
		seed = append(seed, evolution.NewQuery(drawn...))
	}

	return evolution.NewQueries(words, seed, evolution.WithRand(rng))
}

func buildMetric(cfg *config.Config) (evaluation.Metric, error) {
	switch cfg.Evaluation.Metric {
	case "", "top_score":
		size := cfg.Evaluation.SearchSize
		if size < 1 {
			size = 10
		}
		return evaluation.TopScoreMetric(size), nil
	case "target_document":
		return evaluation.TargetDocumentMetric(cfg.Evaluation.TargetDocumentID), nil
	default:
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "unknown evaluation metric"),
			errors.Fields{"metric": cfg.Evaluation.Metric},
		)
	}
}
