package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaumanns/evolve-a-query/pkg/config"
	"github.com/kaumanns/evolve-a-query/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "evolve-a-query",
	Short: "Evolve search queries against an embedded full-text index",
	Long: `evolve-a-query breeds populations of search queries with a genetic
algorithm. Queries are scored against an embedded full-text index, weak
queries are culled, survivors are recombined and mutated, and the cycle
repeats until the population converges.

Typical workflow:
  1. seed the index and vocabulary from a document corpus
  2. run the evolution loop against the seeded index`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newRunCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file when given, otherwise the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogging(cfg *config.Config) {
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Logging.Level),
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	}))
}
