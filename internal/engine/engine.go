package engine

import (
	"context"
	"fmt"
	"time"

	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/pkg/models"
)

// Engine is the contract every recognition backend satisfies. A call either
// returns recognized text with Succeeded set, or a failed outcome carrying
// ErrorDetail. Implementations must not panic across this boundary.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) models.RecognitionOutcome
	Close() error
}

// ImageFetcher resolves an image path to its bytes. Backends share one
// fetcher so local files, HTTP URLs and blob storage all look alike.
type ImageFetcher interface {
	Fetch(ctx context.Context, imagePath string) ([]byte, error)
}

// failedOutcome builds the outcome for a recognition fault.
func failedOutcome(imagePath, detail string, started time.Time) models.RecognitionOutcome {
	return models.RecognitionOutcome{
		ImagePath:   imagePath,
		Succeeded:   false,
		ErrorDetail: detail,
		Latency:     time.Since(started),
	}
}

// successOutcome builds the outcome for recognized text, empty text allowed.
func successOutcome(imagePath, text string, started time.Time) models.RecognitionOutcome {
	return models.RecognitionOutcome{
		ImagePath: imagePath,
		Text:      text,
		Succeeded: true,
		Latency:   time.Since(started),
	}
}

// recoverToOutcome converts a panic inside a backend into a failed outcome.
// Call via defer with a named return.
func recoverToOutcome(engineName, imagePath string, started time.Time, outcome *models.RecognitionOutcome) {
	if r := recover(); r != nil {
		logger.WithFields(map[string]interface{}{
			"engine": engineName,
			"image":  imagePath,
			"panic":  fmt.Sprint(r),
		}).Error("Recognition backend panicked")
		*outcome = failedOutcome(imagePath, fmt.Sprintf("backend panic: %v", r), started)
	}
}
