package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/rushteam/riskit/config"
	_ "github.com/rushteam/riskit/config/builders"
)

var cfgFile string

func main() {
	log.SetFlags(log.LstdFlags)

	rootCmd := &cobra.Command{
		Use:   "riskit",
		Short: "Insurance client risk scoring and data profiling",
		Long: `riskit scores new insurance clients against a fitted clustering model
and profiles/cleans client tables.

Examples:
  # Score the first client of a CSV file
  riskit score -c riskit.yaml new_client.csv

  # Score every row, 8 workers
  RISKIT_WORKERS=8 riskit batch -c riskit.yaml clients.csv -o scored.csv

  # Profile a table: nulls, stats, outliers, value counts, dates
  riskit profile clients.csv --dates POLICY_START,POLICY_END

  # Impute nulls, normalise dates and cap upper outliers
  riskit clean clients.csv -o clean.csv --dates POLICY_START --cap PREMIUM
`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $RISKIT_CONFIG)")

	rootCmd.AddCommand(newScoreCmd(false))
	rootCmd.AddCommand(newScoreCmd(true))
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		config.Exitf("riskit: %v", err)
	}
}
