package repository

import (
	"context"

	"go-ocr-benchmark/pkg/models"
)

// SummaryRepository defines the interface for evaluation summary persistence.
// Saved summaries back the compare-from-files flow and the HTTP API.
type SummaryRepository interface {
	// SaveSummary stores one engine's evaluation summary
	SaveSummary(ctx context.Context, summary models.EvaluationSummary) error

	// GetSummary retrieves the most recent summary for an engine
	GetSummary(ctx context.Context, engineName string) (*models.EvaluationSummary, error)

	// ListSummaries retrieves the most recent summary of every engine
	ListSummaries(ctx context.Context) ([]models.EvaluationSummary, error)

	// SaveComparison stores a ranked comparison result
	SaveComparison(ctx context.Context, result models.ComparisonResult) error

	// GetComparison retrieves the most recent comparison result
	GetComparison(ctx context.Context) (*models.ComparisonResult, error)
}
