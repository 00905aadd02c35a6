package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rosterscraper/pkg/combiner"
	"rosterscraper/pkg/config"
	"rosterscraper/pkg/logger"
	"rosterscraper/pkg/ui"
)

var (
	// Combine command flags
	combinePattern string
	combineOut     string
)

// combineCmd represents the combine command
var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Merge the CSV files from multiple runs into one",
	Long: `Merge the instructor CSV files produced by multiple scrape runs
into a single file, deduplicated by exact (FirstName, LastName) pair
and sorted by last name then first name.`,
	Example: `  # Combine the numbered files from --mode unique runs
  rosterscraper combine

  # Combine a custom set of files
  rosterscraper combine --pattern "fall_*.csv" --out fall_all.csv`,
	Args: cobra.NoArgs,
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().StringVar(&combinePattern, "pattern", "instructors_run*.csv", "glob pattern of run files to combine")
	combineCmd.Flags().StringVar(&combineOut, "out", "instructors_combined.csv", "combined output file")
}

func runCombine(cmd *cobra.Command, args []string) error {
	if err := logger.Initialize(&config.LoggingConfig{Level: logLevel}); err != nil {
		ui.PrintError("Failed to initialize logging", err)
		return err
	}

	stats, err := combiner.CombineGlob(combinePattern, combineOut)
	if err != nil {
		ui.PrintError("Combine failed", err)
		return err
	}

	ui.PrintInfo("Files", fmt.Sprintf("%d", stats.Files))
	ui.PrintInfo("Rows read", fmt.Sprintf("%d", stats.Rows))
	ui.PrintInfo("Duplicates removed", fmt.Sprintf("%d", stats.Duplicates))
	ui.PrintSuccess(fmt.Sprintf("Wrote %d unique instructors to %s", stats.Unique, combineOut))
	return nil
}
