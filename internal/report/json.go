package report

import (
	"encoding/json"
	"fmt"

	"go-ocr-benchmark/pkg/models"
)

// WriteJSONSummary writes the complete summary, records included, as JSON.
func (w *Writer) WriteJSONSummary(summary models.EvaluationSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return w.write(w.fileName(summary.EngineName+"_results", "json"), data)
}

// WriteJSONComparison writes a ranked comparison as JSON.
func (w *Writer) WriteJSONComparison(result models.ComparisonResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode comparison: %w", err)
	}
	return w.write(w.fileName("comparison_results", "json"), data)
}
