package evaluator

import (
	"strings"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"

	"go-ocr-benchmark/pkg/models"
)

// RecordEvaluator scores one recognition outcome against one ground-truth
// record. Pure: no I/O, no state beyond the options it was built with.
type RecordEvaluator struct {
	caseSensitive bool
}

// NewRecordEvaluator creates a record evaluator.
func NewRecordEvaluator(caseSensitive bool) *RecordEvaluator {
	return &RecordEvaluator{caseSensitive: caseSensitive}
}

// Evaluate produces the scored record for one (ground truth, outcome) pair.
// A failed outcome scores 0.0 with no exact match.
func (e *RecordEvaluator) Evaluate(gt models.GroundTruthRecord, outcome models.RecognitionOutcome) models.EvaluationRecord {
	record := models.EvaluationRecord{
		ImagePath:   gt.ImagePath,
		GroundTruth: gt,
		Outcome:     outcome,
	}

	if !outcome.Succeeded {
		return record
	}

	reference := gt.Transcription
	hypothesis := outcome.Text
	if !e.caseSensitive {
		reference = strings.ToUpper(reference)
		hypothesis = strings.ToUpper(hypothesis)
	}

	record.ExactMatch = hypothesis == reference
	record.Accuracy = Accuracy(reference, hypothesis)
	record.WordAccuracy = wordAccuracy(reference, hypothesis)

	return record
}

// Accuracy is the Levenshtein-normalized similarity between two strings:
// 1 - distance/max(len), clamped to [0,1]. Both strings empty scores 1.0.
// Lengths are counted in runes so multi-byte text normalizes correctly.
func Accuracy(reference, hypothesis string) float64 {
	m := utf8.RuneCountInString(reference)
	if n := utf8.RuneCountInString(hypothesis); n > m {
		m = n
	}
	if m == 0 {
		return 1.0
	}

	d := levenshtein.Distance(reference, hypothesis)
	return clamp01(1.0 - float64(d)/float64(m))
}

// wordAccuracy is the word-error-rate complement, meaningful for multi-word
// transcriptions. Single-token strings degenerate to all-or-nothing.
func wordAccuracy(reference, hypothesis string) float64 {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	if len(refWords) == 0 && len(hypWords) == 0 {
		return 1.0
	}
	if len(refWords) == 0 || len(hypWords) == 0 {
		return 0.0
	}

	_, wacc := wer.WER(refWords, hypWords)
	return clamp01(wacc)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
