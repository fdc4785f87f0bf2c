package evaluator

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"go-ocr-benchmark/pkg/models"
)

// Aggregate folds scored records into a dataset-level summary for one engine.
// Pure fold over the input slice: permuting records changes neither the
// overall accuracy nor the bucket counts, only the failure listing order.
func Aggregate(engineName string, records []models.EvaluationRecord) models.EvaluationSummary {
	summary := models.EvaluationSummary{
		EngineName:           engineName,
		Timestamp:            time.Now().UTC(),
		TotalImages:          len(records),
		AccuracyDistribution: emptyDistribution(),
		Records:              records,
	}

	if len(records) == 0 {
		summary.NoData = true
		return summary
	}

	accuracies := make([]float64, 0, len(records))
	var totalLatency, maxLatency time.Duration
	var latencySamples int

	for _, record := range records {
		accuracies = append(accuracies, record.Accuracy)
		summary.AccuracyDistribution[bucketFor(record.Accuracy)]++

		if record.ExactMatch {
			summary.ExactMatchCount++
		}
		if record.Outcome.Succeeded {
			summary.SucceededImages++
		} else {
			summary.Failures = append(summary.Failures, models.Failure{
				ImagePath:   record.ImagePath,
				ErrorDetail: record.Outcome.ErrorDetail,
			})
		}

		if record.Outcome.Latency > 0 {
			latencySamples++
			totalLatency += record.Outcome.Latency
			if record.Outcome.Latency > maxLatency {
				maxLatency = record.Outcome.Latency
			}
		}
	}

	summary.OverallAccuracy = stat.Mean(accuracies, nil)
	summary.ExactMatchRate = float64(summary.ExactMatchCount) / float64(summary.TotalImages)

	if latencySamples > 0 {
		summary.Latency = models.LatencyStats{
			Mean:  totalLatency / time.Duration(latencySamples),
			Max:   maxLatency,
			Total: totalLatency,
		}
	}

	return summary
}

// AggregateDirectories rolls per-directory records up into one summary and
// attaches a per-directory breakdown, preserving the given directory order.
func AggregateDirectories(engineName string, byDirectory map[string][]models.EvaluationRecord, order []string) models.EvaluationSummary {
	var all []models.EvaluationRecord
	var breakdown []models.DirectorySummary

	for _, dir := range order {
		records := byDirectory[dir]
		if len(records) == 0 {
			continue
		}
		all = append(all, records...)

		dirSummary := Aggregate(engineName, records)
		breakdown = append(breakdown, models.DirectorySummary{
			Directory:       dir,
			TotalImages:     dirSummary.TotalImages,
			AverageAccuracy: dirSummary.OverallAccuracy,
			ExactMatchCount: dirSummary.ExactMatchCount,
			ExactMatchRate:  dirSummary.ExactMatchRate,
		})
	}

	summary := Aggregate(engineName, all)
	summary.Directories = breakdown
	return summary
}

// bucketFor assigns an accuracy to its distribution bucket. Buckets are
// half-open on the right except the top one, which includes 1.0.
func bucketFor(accuracy float64) string {
	switch {
	case accuracy >= 0.9:
		return "0.9-1.0"
	case accuracy >= 0.8:
		return "0.8-0.9"
	case accuracy >= 0.7:
		return "0.7-0.8"
	case accuracy >= 0.6:
		return "0.6-0.7"
	default:
		return "<0.6"
	}
}

func emptyDistribution() map[string]int {
	dist := make(map[string]int, len(models.BucketLabels))
	for _, label := range models.BucketLabels {
		dist[label] = 0
	}
	return dist
}
