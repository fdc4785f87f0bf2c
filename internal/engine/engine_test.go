package engine

import (
	"strings"
	"testing"
	"time"

	"go-ocr-benchmark/pkg/models"
)

func TestRecoverToOutcomeCapturesPanic(t *testing.T) {
	run := func() (outcome models.RecognitionOutcome) {
		started := time.Now()
		defer recoverToOutcome("stub", "img.jpg", started, &outcome)
		panic("boom")
	}

	outcome := run()

	if outcome.Succeeded {
		t.Error("panicking backend must yield a failed outcome")
	}
	if outcome.ImagePath != "img.jpg" {
		t.Errorf("image path lost: %+v", outcome)
	}
	if !strings.Contains(outcome.ErrorDetail, "boom") {
		t.Errorf("error detail %q should carry the panic value", outcome.ErrorDetail)
	}
}
