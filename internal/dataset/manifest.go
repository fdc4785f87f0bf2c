package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/pkg/models"
	"go-ocr-benchmark/pkg/validation"
)

// AnnotationPolicy controls how manifest lines carrying multiple annotation
// objects are turned into records.
type AnnotationPolicy string

const (
	// PolicyFirst keeps only the first well-formed annotation per line.
	PolicyFirst AnnotationPolicy = "first"
	// PolicyAll yields one record per annotation, sharing the image path.
	PolicyAll AnnotationPolicy = "all"
)

// ManifestName is the label file expected inside each dataset directory.
const ManifestName = "Label.txt"

// annotation mirrors one object of the JSON segment of a manifest line.
type annotation struct {
	Transcription string       `json:"transcription"`
	Points        [][2]float64 `json:"points"`
	Difficult     bool         `json:"difficult"`
}

// LoadResult carries the parsed records plus the data-quality counters the
// loader accumulated on the way.
type LoadResult struct {
	Records      []models.GroundTruthRecord
	SkippedLines int
	LabelIssues  []validation.LabelIssue
}

// Loader parses label manifests into ground-truth records. Malformed lines
// are skipped and counted; only an unreadable manifest aborts loading.
type Loader struct {
	policy        AnnotationPolicy
	skipDifficult bool
	validator     *validation.LabelValidator
}

// NewLoader creates a manifest loader with the given annotation policy.
func NewLoader(policy AnnotationPolicy, skipDifficult bool) *Loader {
	if policy != PolicyAll {
		policy = PolicyFirst
	}
	return &Loader{
		policy:        policy,
		skipDifficult: skipDifficult,
		validator:     validation.NewLabelValidator(),
	}
}

// Load reads the manifest at path and returns its records together with the
// skipped-line count. An unreadable file is fatal; per-line failures are not.
func (l *Loader) Load(path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFatalIOError(
			fmt.Sprintf("cannot open manifest %s", path), err)
	}
	defer file.Close()

	result := &LoadResult{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		records, perr := l.parseLine(line)
		if perr != nil {
			result.SkippedLines++
			logger.WithFields(map[string]interface{}{
				"manifest": path,
				"line":     lineNo,
				"error":    perr.Error(),
			}).Warn("Skipping malformed manifest line")
			continue
		}

		for _, rec := range records {
			if l.skipDifficult && rec.Difficult {
				continue
			}
			result.LabelIssues = append(result.LabelIssues, l.validator.Validate(rec)...)
			result.Records = append(result.Records, rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewFatalIOError(
			fmt.Sprintf("error reading manifest %s", path), err)
	}

	logger.WithFields(map[string]interface{}{
		"manifest": path,
		"records":  len(result.Records),
		"skipped":  result.SkippedLines,
	}).Info("Manifest loaded")

	return result, nil
}

// parseLine splits one manifest line into ground-truth records. The format is
// image_path, a tab, then a JSON array of annotation objects.
func (l *Loader) parseLine(line string) ([]models.GroundTruthRecord, error) {
	parts := strings.SplitN(line, "\t", 2)
	if len(parts) != 2 {
		return nil, apperrors.NewParseError("line is not tab-separated", nil)
	}

	imagePath := strings.TrimSpace(parts[0])
	if imagePath == "" {
		return nil, apperrors.NewParseError("empty image path", nil)
	}

	var annotations []annotation
	if err := json.Unmarshal([]byte(parts[1]), &annotations); err != nil {
		return nil, apperrors.NewParseError("invalid annotation JSON", err)
	}
	if len(annotations) == 0 {
		return nil, apperrors.NewParseError("no annotations on line", nil)
	}

	if l.policy == PolicyFirst {
		annotations = annotations[:1]
	}

	records := make([]models.GroundTruthRecord, 0, len(annotations))
	for _, ann := range annotations {
		records = append(records, models.GroundTruthRecord{
			ImagePath:     filepath.ToSlash(imagePath),
			Transcription: ann.Transcription,
			Points:        ann.Points,
			Difficult:     ann.Difficult,
		})
	}
	return records, nil
}
