// Package main implements the clausecheck CLI: an interactive batch
// classifier that labels free-text contract fields in a CSV dataset as
// low risk (Yes) or higher risk (No), delegating judgment to an OpenAI
// model grounded in a fixed set of contract guideline documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version information
	version = "dev"

	// flag values
	configPath  string
	inputPath   string
	columnNames string
	outputPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// One generic top-level report; validation misses inside the
		// flow return nil after printing their own message.
		fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clausecheck",
	Short: "Classify contract text fields in a CSV as low or higher risk",
	Long: `clausecheck analyzes free-text contract fields in a CSV dataset and
classifies each value as "Yes" (adheres to guidelines, low risk) or
"No" (does not adhere, higher risk). Judgment is delegated to an OpenAI
model grounded in a fixed set of contract guideline documents.

Run without flags for an interactive session:

  clausecheck

Or run non-interactively:

  clausecheck --input deals.csv --columns ClauseText,Terms --output classified.csv

The OPENAI_API_KEY environment variable must be set.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClassify,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.Flags().StringVar(&inputPath, "input", "", "input CSV path (skips the interactive prompt)")
	rootCmd.Flags().StringVar(&columnNames, "columns", "", "comma-separated column names to classify (requires --input)")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "output CSV path (requires --input)")
}
