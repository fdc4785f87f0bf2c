package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"

	"go-ocr-benchmark/internal/config"
	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/pkg/models"
)

// pageSegModes maps config names to tesseract segmentation modes.
var pageSegModes = map[string]gosseract.PageSegMode{
	"auto":         gosseract.PSM_AUTO,
	"single_block": gosseract.PSM_SINGLE_BLOCK,
	"single_line":  gosseract.PSM_SINGLE_LINE,
	"single_word":  gosseract.PSM_SINGLE_WORD,
	"sparse_text":  gosseract.PSM_SPARSE_TEXT,
}

// TesseractEngine recognizes text with a local tesseract client. The client
// is not safe for concurrent use, so calls are serialized with a mutex; run
// parallelism comes from the worker pool fanning out across images.
type TesseractEngine struct {
	mu      sync.Mutex
	client  *gosseract.Client
	fetcher ImageFetcher

	language    string
	pageSegMode gosseract.PageSegMode
}

// NewTesseractEngine creates a tesseract-backed engine from its options.
// Recognized options: language (default "eng"), page_mode.
func NewTesseractEngine(opts config.EngineOptions, fetcher ImageFetcher) (*TesseractEngine, error) {
	language := opts.String("language", "eng")
	modeName := opts.String("page_mode", "single_line")
	mode, ok := pageSegModes[modeName]
	if !ok {
		return nil, fmt.Errorf("unknown page_mode %q", modeName)
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language %q: %w", language, err)
	}
	if err := client.SetPageSegMode(mode); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}

	return &TesseractEngine{
		client:      client,
		fetcher:     fetcher,
		language:    language,
		pageSegMode: mode,
	}, nil
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize runs OCR on one image. Faults become failed outcomes.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (outcome models.RecognitionOutcome) {
	started := time.Now()
	defer recoverToOutcome(e.Name(), imagePath, started, &outcome)

	data, err := e.fetcher.Fetch(ctx, imagePath)
	if err != nil {
		return failedOutcome(imagePath, fmt.Sprintf("fetch image: %v", err), started)
	}

	if err := ctx.Err(); err != nil {
		return failedOutcome(imagePath, "timeout", started)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(data); err != nil {
		return failedOutcome(imagePath, fmt.Sprintf("set image: %v", err), started)
	}

	text, err := e.client.Text()
	if err != nil {
		return failedOutcome(imagePath, fmt.Sprintf("recognize text: %v", err), started)
	}

	result := strings.TrimSpace(text)
	logger.WithFields(map[string]interface{}{
		"engine": e.Name(),
		"image":  imagePath,
		"text":   result,
	}).Debug("Recognition complete")

	return successOutcome(imagePath, result, started)
}

// Close releases the tesseract client.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
