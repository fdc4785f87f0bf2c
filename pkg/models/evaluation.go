package models

import "time"

// GroundTruthRecord is one labeled sample from a dataset manifest.
// Records are immutable once loaded.
type GroundTruthRecord struct {
	ImagePath     string       `json:"image_path"`
	Transcription string       `json:"transcription"`
	Points        [][2]float64 `json:"points,omitempty"`
	Difficult     bool         `json:"difficult,omitempty"`
}

// RecognitionOutcome is the result of a single engine call for one image.
type RecognitionOutcome struct {
	ImagePath   string        `json:"image_path"`
	Text        string        `json:"text"`
	Succeeded   bool          `json:"succeeded"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	Latency     time.Duration `json:"latency,omitempty"`
}

// EvaluationRecord scores one recognition outcome against its ground truth.
// Accuracy is the Levenshtein-normalized similarity in [0,1]; WordAccuracy is
// the word-error-rate complement for multi-word transcriptions.
type EvaluationRecord struct {
	ImagePath    string             `json:"image_path"`
	GroundTruth  GroundTruthRecord  `json:"ground_truth"`
	Outcome      RecognitionOutcome `json:"outcome"`
	ExactMatch   bool               `json:"exact_match"`
	Accuracy     float64            `json:"accuracy"`
	WordAccuracy float64            `json:"word_accuracy"`
}

// Failure identifies a non-succeeded outcome inside a summary.
type Failure struct {
	ImagePath   string `json:"image_path"`
	ErrorDetail string `json:"error_detail"`
}

// DirectorySummary aggregates results for one dataset directory.
type DirectorySummary struct {
	Directory       string  `json:"directory"`
	TotalImages     int     `json:"total_images"`
	AverageAccuracy float64 `json:"average_accuracy"`
	ExactMatchCount int     `json:"exact_match_count"`
	ExactMatchRate  float64 `json:"exact_match_rate"`
}

// LatencyStats summarizes engine call latency over a run.
type LatencyStats struct {
	Mean  time.Duration `json:"mean"`
	Max   time.Duration `json:"max"`
	Total time.Duration `json:"total"`
}

// BucketLabels lists accuracy distribution buckets in display order.
// The top bucket is closed at 1.0, the rest are half-open on the right.
var BucketLabels = []string{"0.9-1.0", "0.8-0.9", "0.7-0.8", "0.6-0.7", "<0.6"}

// EvaluationSummary is the dataset-level result for one engine run.
// Immutable after construction; bucket counts always sum to TotalImages.
type EvaluationSummary struct {
	EngineName      string    `json:"engine_name"`
	Timestamp       time.Time `json:"timestamp"`
	TotalImages     int       `json:"total_images"`
	SucceededImages int       `json:"succeeded_images"`
	ExactMatchCount int       `json:"exact_match_count"`

	// NoData marks a summary built from zero records. OverallAccuracy and
	// ExactMatchRate are zero in that case but must not be read as scores.
	NoData bool `json:"no_data,omitempty"`

	OverallAccuracy float64 `json:"overall_accuracy"`
	ExactMatchRate  float64 `json:"exact_match_rate"`

	AccuracyDistribution map[string]int `json:"accuracy_distribution"`

	Failures    []Failure          `json:"failures,omitempty"`
	Directories []DirectorySummary `json:"directory_results,omitempty"`
	Records     []EvaluationRecord `json:"records,omitempty"`

	Latency      LatencyStats `json:"latency"`
	SkippedLines int          `json:"skipped_lines,omitempty"`
}

// ComparisonEntry is one engine's position in a ranked comparison.
// AccuracyDelta is overall accuracy minus the top engine's, so it is zero for
// the top entry and non-positive for every other.
type ComparisonEntry struct {
	Rank          int               `json:"rank"`
	EngineName    string            `json:"engine_name"`
	Summary       EvaluationSummary `json:"summary"`
	AccuracyDelta float64           `json:"accuracy_delta"`
}

// ComparisonResult ranks summaries of multiple engines over the same dataset.
type ComparisonResult struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Entries     []ComparisonEntry `json:"entries"`
}
