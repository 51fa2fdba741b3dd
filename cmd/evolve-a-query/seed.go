package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaumanns/evolve-a-query/pkg/config"
	"github.com/kaumanns/evolve-a-query/pkg/errors"
	"github.com/kaumanns/evolve-a-query/pkg/index"
	"github.com/kaumanns/evolve-a-query/pkg/vocabulary"
)

func newSeedCommand() *cobra.Command {
	var configPath string
	var wholeFile bool

	cmd := &cobra.Command{
		Use:   "seed <file> [file...]",
		Short: "Index documents and build the vocabulary store",
		Long: `Read plain-text files, index them as documents, and persist the
vocabulary extracted from them. By default every non-empty line becomes one
document; with --whole-file each file becomes a single document.`,
		Example: `  # One document per line
  evolve-a-query seed --config config.yaml corpus.txt

  # One document per file
  evolve-a-query seed --config config.yaml --whole-file articles/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			texts, err := readDocuments(args, wholeFile)
			if err != nil {
				return err
			}
			if len(texts) == 0 {
				return errors.New(errors.InvalidInput, "no documents found in input files")
			}

			vocab := newVocabulary(cfg)
			idx, err := openIndex(cfg, vocab)
			if err != nil {
				return err
			}
			defer idx.Close()

			ids, err := idx.AddBulk(cmd.Context(), texts)
			if err != nil {
				return err
			}

			if cfg.Vocabulary.StorePath != "" || cfg.Vocabulary.InMemory {
				store, err := vocabulary.OpenStore(cfg.Vocabulary.StorePath, cfg.Vocabulary.InMemory)
				if err != nil {
					return err
				}
				defer store.Close()

				if err := store.Save(vocab); err != nil {
					return err
				}
			}

			fmt.Printf("Indexed %d documents (%d distinct words)\n", len(ids), vocab.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&wholeFile, "whole-file", false, "treat each file as one document")

	return cmd
}

func newVocabulary(cfg *config.Config) *vocabulary.Vocabulary {
	var opts []vocabulary.Option
	if cfg.Vocabulary.MinWordLength > 0 {
		opts = append(opts, vocabulary.WithMinWordLength(cfg.Vocabulary.MinWordLength))
	}
	return vocabulary.New(opts...)
}

func openIndex(cfg *config.Config, vocab *vocabulary.Vocabulary) (*index.Bleve, error) {
	if cfg.Index.InMemory {
		return index.OpenMemOnly(vocab)
	}
	return index.Open(cfg.Index.Path, vocab)
}

func readDocuments(paths []string, wholeFile bool) ([]string, error) {
	var texts []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithFields(
				errors.Wrap(err, errors.InvalidInput, "failed to read input file"),
				errors.Fields{"path": path},
			)
		}

		if wholeFile {
			if text := strings.TrimSpace(string(data)); text != "" {
				texts = append(texts, text)
			}
			continue
		}

		for _, line := range strings.Split(string(data), "\n") {
			if text := strings.TrimSpace(line); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts, nil
}
