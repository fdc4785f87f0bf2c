package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-ocr-benchmark/internal/container"
	"go-ocr-benchmark/pkg/models"
)

func newCompareCommand(opts *rootOptions) *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "compare <engine> <engine> [engine...]",
		Short: "Compare two or more engines on the same dataset",
		Long: `Compare evaluates every named engine over the dataset and ranks them
by overall accuracy. All engines must see the identical set of images,
otherwise the comparison is rejected.

With --stored the engines are not re-run; previously saved summaries are
loaded from the results directory instead.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			c, err := container.New(cfg, opts.imagesDir)
			if err != nil {
				return err
			}

			var result *models.ComparisonResult
			if stored {
				result, err = c.Service().CompareStored(cmd.Context(), args)
			} else {
				result, err = c.Service().CompareEngines(cmd.Context(), args)
			}
			if err != nil {
				return err
			}

			printComparison(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "compare previously saved summaries instead of re-running the engines")

	return cmd
}

func printComparison(cmd *cobra.Command, result *models.ComparisonResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-5s %-24s %-10s %-12s %s\n", "Rank", "Engine", "Accuracy", "Exact Rate", "Delta")
	for _, entry := range result.Entries {
		fmt.Fprintf(out, "%-5d %-24s %-10.4f %-12.4f %+.4f\n",
			entry.Rank, entry.EngineName,
			entry.Summary.OverallAccuracy, entry.Summary.ExactMatchRate,
			entry.AccuracyDelta)
	}
}
