package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go-ocr-benchmark/pkg/models"
)

const comparisonFile = "comparison_latest.json"

// FileSummaryRepository persists summaries as JSON files under a results
// directory, one file per engine plus one for the latest comparison.
type FileSummaryRepository struct {
	mu  sync.RWMutex
	dir string
}

// NewFileSummaryRepository creates a file-backed summary repository rooted
// at dir, creating it if needed.
func NewFileSummaryRepository(dir string) (*FileSummaryRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create results directory %s: %v", ErrRepositoryUnavailable, dir, err)
	}
	return &FileSummaryRepository{dir: dir}, nil
}

// SaveSummary stores one engine's evaluation summary
func (r *FileSummaryRepository) SaveSummary(ctx context.Context, summary models.EvaluationSummary) error {
	if summary.EngineName == "" {
		return fmt.Errorf("summary has no engine name")
	}
	return r.writeJSON(summaryFileName(summary.EngineName), summary)
}

// GetSummary retrieves the most recent summary for an engine
func (r *FileSummaryRepository) GetSummary(ctx context.Context, engineName string) (*models.EvaluationSummary, error) {
	var summary models.EvaluationSummary
	if err := r.readJSON(summaryFileName(engineName), &summary); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// ListSummaries retrieves the most recent summary of every engine
func (r *FileSummaryRepository) ListSummaries(ctx context.Context) ([]models.EvaluationSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list results directory: %v", ErrRepositoryUnavailable, err)
	}

	var summaries []models.EvaluationSummary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "summary_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var summary models.EvaluationSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SaveComparison stores a ranked comparison result
func (r *FileSummaryRepository) SaveComparison(ctx context.Context, result models.ComparisonResult) error {
	return r.writeJSON(comparisonFile, result)
}

// GetComparison retrieves the most recent comparison result
func (r *FileSummaryRepository) GetComparison(ctx context.Context) (*models.ComparisonResult, error) {
	var result models.ComparisonResult
	if err := r.readJSON(comparisonFile, &result); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrComparisonNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *FileSummaryRepository) writeJSON(name string, v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

func (r *FileSummaryRepository) readJSON(name string, v interface{}) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// summaryFileName sanitizes an engine name into a stable file name.
func summaryFileName(engineName string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, engineName)
	return fmt.Sprintf("summary_%s.json", safe)
}
