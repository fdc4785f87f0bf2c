package evaluator

import (
	"fmt"
	"sort"
	"time"

	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/pkg/models"
)

// Compare ranks summaries of multiple engines evaluated over the same
// dataset. Summaries built over different image-path sets fail with a
// dataset-mismatch error instead of producing a skewed ranking.
func Compare(summaries []models.EvaluationSummary) (*models.ComparisonResult, error) {
	if len(summaries) == 0 {
		return nil, apperrors.NewDatasetMismatchError("no summaries to compare", nil)
	}

	if err := checkSameDataset(summaries); err != nil {
		return nil, err
	}

	ranked := make([]models.EvaluationSummary, len(summaries))
	copy(ranked, summaries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OverallAccuracy != ranked[j].OverallAccuracy {
			return ranked[i].OverallAccuracy > ranked[j].OverallAccuracy
		}
		if ranked[i].ExactMatchRate != ranked[j].ExactMatchRate {
			return ranked[i].ExactMatchRate > ranked[j].ExactMatchRate
		}
		return ranked[i].EngineName < ranked[j].EngineName
	})

	top := ranked[0]
	result := &models.ComparisonResult{
		GeneratedAt: time.Now().UTC(),
		Entries:     make([]models.ComparisonEntry, 0, len(ranked)),
	}
	for i, summary := range ranked {
		result.Entries = append(result.Entries, models.ComparisonEntry{
			Rank:          i + 1,
			EngineName:    summary.EngineName,
			Summary:       summary,
			AccuracyDelta: summary.OverallAccuracy - top.OverallAccuracy,
		})
	}

	return result, nil
}

// checkSameDataset verifies every summary covers the identical image-path
// set. The first summary's set is the reference.
func checkSameDataset(summaries []models.EvaluationSummary) error {
	reference := pathSet(summaries[0])

	for _, summary := range summaries[1:] {
		set := pathSet(summary)
		if len(set) != len(reference) {
			return mismatchError(summaries[0], summary)
		}
		for path := range set {
			if !reference[path] {
				return mismatchError(summaries[0], summary)
			}
		}
	}
	return nil
}

func pathSet(summary models.EvaluationSummary) map[string]bool {
	set := make(map[string]bool, len(summary.Records))
	for _, record := range summary.Records {
		set[record.ImagePath] = true
	}
	return set
}

func mismatchError(a, b models.EvaluationSummary) error {
	return apperrors.NewDatasetMismatchError(
		fmt.Sprintf("engines %s and %s were evaluated on different image sets",
			a.EngineName, b.EngineName), nil)
}
