package evaluator

import (
	"math"
	"testing"

	"go-ocr-benchmark/pkg/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"identical", "ABC123", "ABC123", 1.0},
		{"both empty", "", "", 1.0},
		{"empty hypothesis", "abc", "", 0.0},
		{"empty reference", "", "abc", 0.0},
		{"single substitution", "XY9", "XY0", 1.0 - 1.0/3.0},
		{"insertion", "AB", "ABC", 1.0 - 1.0/3.0},
		{"completely different", "AAAA", "BBBB", 0.0},
		{"multibyte runes", "日本語", "日本誤", 1.0 - 1.0/3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Accuracy(tt.reference, tt.hypothesis)
			if !almostEqual(got, tt.want) {
				t.Errorf("Accuracy(%q, %q) = %v, want %v", tt.reference, tt.hypothesis, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("accuracy %v outside [0,1]", got)
			}
		})
	}
}

func TestAccuracySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"ABC123", "AB123"},
		{"hello", "world"},
		{"", "xyz"},
		{"XY9", "XY0"},
	}
	for _, pair := range pairs {
		if !almostEqual(Accuracy(pair[0], pair[1]), Accuracy(pair[1], pair[0])) {
			t.Errorf("Accuracy not symmetric for %q / %q", pair[0], pair[1])
		}
	}
}

func TestExactMatchIffPerfectAccuracy(t *testing.T) {
	e := NewRecordEvaluator(true)

	tests := []struct {
		reference  string
		hypothesis string
	}{
		{"ABC123", "ABC123"},
		{"ABC123", "ABC12"},
		{"ABC123", "abc123"},
		{"X", "Y"},
	}
	for _, tt := range tests {
		record := e.Evaluate(
			models.GroundTruthRecord{ImagePath: "img.jpg", Transcription: tt.reference},
			models.RecognitionOutcome{ImagePath: "img.jpg", Text: tt.hypothesis, Succeeded: true},
		)
		perfect := almostEqual(record.Accuracy, 1.0)
		if record.ExactMatch != perfect {
			t.Errorf("%q vs %q: exact=%v but accuracy=%v", tt.reference, tt.hypothesis, record.ExactMatch, record.Accuracy)
		}
	}
}

func TestEvaluateFailedOutcome(t *testing.T) {
	e := NewRecordEvaluator(true)

	record := e.Evaluate(
		models.GroundTruthRecord{ImagePath: "img.jpg", Transcription: "ABC123"},
		models.RecognitionOutcome{ImagePath: "img.jpg", Succeeded: false, ErrorDetail: "timeout"},
	)

	if record.Accuracy != 0.0 || record.ExactMatch {
		t.Errorf("failed outcome must score zero, got accuracy=%v exact=%v", record.Accuracy, record.ExactMatch)
	}
	if record.Outcome.ErrorDetail != "timeout" {
		t.Errorf("error detail lost: %+v", record.Outcome)
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	gt := models.GroundTruthRecord{ImagePath: "img.jpg", Transcription: "ABC123"}
	outcome := models.RecognitionOutcome{ImagePath: "img.jpg", Text: "abc123", Succeeded: true}

	strict := NewRecordEvaluator(true).Evaluate(gt, outcome)
	if strict.ExactMatch {
		t.Error("case-sensitive evaluator should not exact-match different cases")
	}

	relaxed := NewRecordEvaluator(false).Evaluate(gt, outcome)
	if !relaxed.ExactMatch || !almostEqual(relaxed.Accuracy, 1.0) {
		t.Errorf("case-insensitive evaluator should score a match, got %+v", relaxed)
	}
}

func TestEvaluateEmptyRecognizedText(t *testing.T) {
	e := NewRecordEvaluator(true)

	record := e.Evaluate(
		models.GroundTruthRecord{ImagePath: "img.jpg", Transcription: "ABC"},
		models.RecognitionOutcome{ImagePath: "img.jpg", Text: "", Succeeded: true},
	)
	if !almostEqual(record.Accuracy, 0.0) || record.ExactMatch {
		t.Errorf("empty text against non-empty truth should score zero, got %+v", record)
	}

	record = e.Evaluate(
		models.GroundTruthRecord{ImagePath: "img.jpg", Transcription: ""},
		models.RecognitionOutcome{ImagePath: "img.jpg", Text: "", Succeeded: true},
	)
	if !almostEqual(record.Accuracy, 1.0) || !record.ExactMatch {
		t.Errorf("both empty should score 1.0 exact, got %+v", record)
	}
}

func TestWordAccuracy(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"identical phrase", "HELLO WORLD", "HELLO WORLD", 1.0},
		{"both empty", "", "", 1.0},
		{"empty hypothesis", "HELLO WORLD", "", 0.0},
		{"one word wrong", "HELLO WORLD", "HELLO THERE", 0.5},
		{"inserted word", "HELLO WORLD", "HELLO BIG WORLD", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordAccuracy(tt.reference, tt.hypothesis)
			if !almostEqual(got, tt.want) {
				t.Errorf("wordAccuracy(%q, %q) = %v, want %v", tt.reference, tt.hypothesis, got, tt.want)
			}
		})
	}
}
