package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"go-ocr-benchmark/pkg/models"
)

// WriteCSVRecords exports per-image records so results can be inspected in a
// spreadsheet.
func (w *Writer) WriteCSVRecords(summary models.EvaluationSummary) (string, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	header := []string{"image_path", "ground_truth", "recognized_text", "succeeded", "exact_match", "accuracy", "error_detail", "latency_ms"}
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range summary.Records {
		row := []string{
			record.ImagePath,
			record.GroundTruth.Transcription,
			record.Outcome.Text,
			strconv.FormatBool(record.Outcome.Succeeded),
			strconv.FormatBool(record.ExactMatch),
			strconv.FormatFloat(record.Accuracy, 'f', 4, 64),
			record.Outcome.ErrorDetail,
			strconv.FormatInt(record.Outcome.Latency.Milliseconds(), 10),
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return w.write(w.fileName(summary.EngineName+"_records", "csv"), buf.Bytes())
}
