package report

import (
	"fmt"
	"strings"

	"go-ocr-benchmark/pkg/models"
)

// WriteMarkdownSummary renders one engine's summary as a Markdown report and
// returns the written path.
func (w *Writer) WriteMarkdownSummary(summary models.EvaluationSummary) (string, error) {
	path := w.fileName(summary.EngineName+"_accuracy_report", "md")
	return w.write(path, []byte(renderMarkdownSummary(summary, w.now().Format(displayFormat))))
}

// WriteMarkdownComparison renders a ranked comparison as Markdown.
func (w *Writer) WriteMarkdownComparison(result models.ComparisonResult) (string, error) {
	path := w.fileName("comparison_report", "md")
	return w.write(path, []byte(renderMarkdownComparison(result, w.now().Format(displayFormat))))
}

func renderMarkdownSummary(summary models.EvaluationSummary, generatedAt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Recognition Accuracy Report\n\n", summary.EngineName)

	if summary.NoData {
		b.WriteString("No images were evaluated. Accuracy figures are undefined for this run.\n\n")
		fmt.Fprintf(&b, "*Generated: %s*\n", generatedAt)
		return b.String()
	}

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- **Total images**: %d\n", summary.TotalImages)
	fmt.Fprintf(&b, "- **Succeeded calls**: %d\n", summary.SucceededImages)
	fmt.Fprintf(&b, "- **Overall accuracy**: %.4f (%s)\n", summary.OverallAccuracy, percent(summary.OverallAccuracy))
	fmt.Fprintf(&b, "- **Exact matches**: %d\n", summary.ExactMatchCount)
	fmt.Fprintf(&b, "- **Exact match rate**: %.4f (%s)\n", summary.ExactMatchRate, percent(summary.ExactMatchRate))
	if summary.SkippedLines > 0 {
		fmt.Fprintf(&b, "- **Skipped manifest lines**: %d\n", summary.SkippedLines)
	}
	if summary.Latency.Total > 0 {
		fmt.Fprintf(&b, "- **Mean call latency**: %s\n", summary.Latency.Mean)
		fmt.Fprintf(&b, "- **Max call latency**: %s\n", summary.Latency.Max)
	}
	b.WriteString("\n")

	b.WriteString("## Accuracy Distribution\n\n")
	for _, label := range models.BucketLabels {
		count := summary.AccuracyDistribution[label]
		share := float64(count) / float64(summary.TotalImages)
		fmt.Fprintf(&b, "- **%s**: %d images (%s)\n", label, count, percent(share))
	}
	b.WriteString("\n")

	if len(summary.Directories) > 0 {
		b.WriteString("## Directory Results\n\n")
		b.WriteString("| Directory | Images | Accuracy | Exact Matches |\n")
		b.WriteString("|-----------|--------|----------|---------------|\n")
		for _, dir := range summary.Directories {
			fmt.Fprintf(&b, "| %s | %d | %.4f | %d |\n",
				dir.Directory, dir.TotalImages, dir.AverageAccuracy, dir.ExactMatchCount)
		}
		b.WriteString("\n")
	}

	if len(summary.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		for _, failure := range summary.Failures {
			fmt.Fprintf(&b, "- `%s`: %s\n", failure.ImagePath, failure.ErrorDetail)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "*Generated: %s*\n", generatedAt)
	return b.String()
}

func renderMarkdownComparison(result models.ComparisonResult, generatedAt string) string {
	var b strings.Builder

	b.WriteString("# Engine Comparison Report\n\n")
	b.WriteString("| Rank | Engine | Accuracy | Exact Match Rate | Delta to Best |\n")
	b.WriteString("|------|--------|----------|------------------|---------------|\n")
	for _, entry := range result.Entries {
		fmt.Fprintf(&b, "| %d | %s | %.4f | %.4f | %+.4f |\n",
			entry.Rank, entry.EngineName,
			entry.Summary.OverallAccuracy, entry.Summary.ExactMatchRate,
			entry.AccuracyDelta)
	}
	b.WriteString("\n")

	for _, entry := range result.Entries {
		fmt.Fprintf(&b, "## %d. %s\n\n", entry.Rank, entry.EngineName)
		fmt.Fprintf(&b, "- **Total images**: %d\n", entry.Summary.TotalImages)
		fmt.Fprintf(&b, "- **Overall accuracy**: %s\n", percent(entry.Summary.OverallAccuracy))
		fmt.Fprintf(&b, "- **Exact matches**: %d (%s)\n",
			entry.Summary.ExactMatchCount, percent(entry.Summary.ExactMatchRate))
		fmt.Fprintf(&b, "- **Failed calls**: %d\n", len(entry.Summary.Failures))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "*Generated: %s*\n", generatedAt)
	return b.String()
}
