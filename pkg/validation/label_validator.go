package validation

import (
	"unicode"
	"unicode/utf8"

	"go-ocr-benchmark/pkg/models"
)

// LabelThresholds defines configurable thresholds for ground-truth validation
type LabelThresholds struct {
	// MaxTranscriptionLength flags labels that are implausibly long for a
	// single text region
	MaxTranscriptionLength int

	// RequiredPolygonPoints is the expected corner count when a polygon is
	// present
	RequiredPolygonPoints int
}

// DefaultLabelThresholds returns the default label thresholds
func DefaultLabelThresholds() LabelThresholds {
	return LabelThresholds{
		MaxTranscriptionLength: 256,
		RequiredPolygonPoints:  4,
	}
}

// LabelIssue represents a ground-truth validation issue
type LabelIssue struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// LabelValidator flags suspicious ground-truth records while a manifest is
// loaded. Issues never abort loading; callers surface them as data-quality
// diagnostics alongside the skipped-line count.
type LabelValidator struct {
	thresholds LabelThresholds
}

// NewLabelValidator creates a new label validator with default thresholds
func NewLabelValidator() *LabelValidator {
	return NewLabelValidatorWithThresholds(DefaultLabelThresholds())
}

// NewLabelValidatorWithThresholds creates a label validator with custom thresholds
func NewLabelValidatorWithThresholds(thresholds LabelThresholds) *LabelValidator {
	return &LabelValidator{
		thresholds: thresholds,
	}
}

// Validate checks one ground-truth record and returns any issues found
func (v *LabelValidator) Validate(record models.GroundTruthRecord) []LabelIssue {
	var issues []LabelIssue

	if record.Transcription == "" {
		issues = append(issues, LabelIssue{
			Type:     "empty_transcription",
			Message:  "transcription is empty",
			Severity: "error",
		})
	} else if isBlank(record.Transcription) {
		issues = append(issues, LabelIssue{
			Type:     "blank_transcription",
			Message:  "transcription contains only whitespace",
			Severity: "error",
		})
	}

	if containsControlChars(record.Transcription) {
		issues = append(issues, LabelIssue{
			Type:     "control_characters",
			Message:  "transcription contains control characters",
			Severity: "error",
		})
	}

	if utf8.RuneCountInString(record.Transcription) > v.thresholds.MaxTranscriptionLength {
		issues = append(issues, LabelIssue{
			Type:     "transcription_too_long",
			Message:  "transcription exceeds expected length for a text region",
			Severity: "warning",
		})
	}

	if len(record.Points) > 0 && len(record.Points) != v.thresholds.RequiredPolygonPoints {
		issues = append(issues, LabelIssue{
			Type:     "malformed_polygon",
			Message:  "text region polygon does not have the expected corner count",
			Severity: "warning",
		})
	}

	if record.Difficult {
		issues = append(issues, LabelIssue{
			Type:     "difficult_sample",
			Message:  "record is flagged difficult and may be excluded from strict scoring",
			Severity: "info",
		})
	}

	return issues
}

// HasErrors reports whether any issue carries error severity
func HasErrors(issues []LabelIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func containsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' {
			return true
		}
	}
	return false
}
