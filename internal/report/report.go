package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-ocr-benchmark/internal/logger"
)

// timestampFormat names report files so successive runs never collide.
const timestampFormat = "2006-01-02_15-04-05"

// displayFormat renders timestamps inside report bodies.
const displayFormat = "2006-01-02 15:04:05"

// Writer renders summaries and comparisons to files under an output
// directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a report writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

func (w *Writer) fileName(base, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", base, w.now().Format(timestampFormat), ext))
}

func (w *Writer) write(path string, data []byte) (string, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	logger.WithField("path", path).Info("Report written")
	return path, nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
