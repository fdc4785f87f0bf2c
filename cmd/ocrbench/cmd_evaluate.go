package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-ocr-benchmark/internal/container"
	"go-ocr-benchmark/pkg/models"
)

func newEvaluateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <engine>",
		Short: "Evaluate one engine over the dataset",
		Long: `Evaluate runs a single recognition engine over every dataset found
under --images-dir, scores the results against the ground truth and writes
the summary and reports to the output directory.

Per-image failures are recorded in the summary and do not fail the run;
the exit code is non-zero only for fatal errors such as a missing dataset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			c, err := container.New(cfg, opts.imagesDir)
			if err != nil {
				return err
			}

			summary, err := c.Service().EvaluateEngine(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, summary *models.EvaluationSummary) {
	out := cmd.OutOrStdout()

	if summary.NoData {
		fmt.Fprintf(out, "%s: no images evaluated\n", summary.EngineName)
		return
	}

	fmt.Fprintf(out, "Engine:           %s\n", summary.EngineName)
	fmt.Fprintf(out, "Images:           %d (%d succeeded)\n", summary.TotalImages, summary.SucceededImages)
	fmt.Fprintf(out, "Overall accuracy: %.4f\n", summary.OverallAccuracy)
	fmt.Fprintf(out, "Exact matches:    %d (%.2f%%)\n", summary.ExactMatchCount, summary.ExactMatchRate*100)
	if summary.SkippedLines > 0 {
		fmt.Fprintf(out, "Skipped lines:    %d\n", summary.SkippedLines)
	}
	if len(summary.Failures) > 0 {
		fmt.Fprintf(out, "Failures:         %d\n", len(summary.Failures))
	}
}
