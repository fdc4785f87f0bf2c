package runner

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-ocr-benchmark/internal/dataset"
	"go-ocr-benchmark/internal/evaluator"
	"go-ocr-benchmark/pkg/models"
)

// stubEngine answers from a fixed table, optionally sleeping first.
type stubEngine struct {
	mu       sync.Mutex
	answers  map[string]string
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	closed   bool
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(ctx context.Context, imagePath string) models.RecognitionOutcome {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if current <= seen || s.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return models.RecognitionOutcome{ImagePath: imagePath, Succeeded: false, ErrorDetail: ctx.Err().Error()}
		}
	}

	text, ok := s.answers[imagePath]
	if !ok {
		return models.RecognitionOutcome{ImagePath: imagePath, Succeeded: false, ErrorDetail: "engine call failed"}
	}
	return models.RecognitionOutcome{ImagePath: imagePath, Text: text, Succeeded: true, Latency: time.Millisecond}
}

func (s *stubEngine) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func truths(paths ...string) []models.GroundTruthRecord {
	records := make([]models.GroundTruthRecord, 0, len(paths))
	for _, p := range paths {
		records = append(records, models.GroundTruthRecord{ImagePath: p, Transcription: strings.ToUpper(p)})
	}
	return records
}

func TestRunnerScoresAllRecordsInOrder(t *testing.T) {
	eng := &stubEngine{answers: map[string]string{
		"img1": "IMG1",
		"img2": "WRONG",
		"img3": "IMG3",
	}}

	r := NewRunner(2, time.Second, evaluator.NewRecordEvaluator(true), nil)
	results := r.Run(context.Background(), eng, truths("img1", "img2", "img3"), nil)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, path := range []string{"img1", "img2", "img3"} {
		if results[i].ImagePath != path {
			t.Errorf("result %d is %s, want %s (manifest order)", i, results[i].ImagePath, path)
		}
	}
	if !results[0].ExactMatch || results[1].ExactMatch || !results[2].ExactMatch {
		t.Errorf("unexpected exact matches: %+v", results)
	}
}

func TestRunnerFailedCallBecomesFailedRecord(t *testing.T) {
	eng := &stubEngine{answers: map[string]string{"img1": "IMG1"}}

	r := NewRunner(1, time.Second, evaluator.NewRecordEvaluator(true), nil)
	results := r.Run(context.Background(), eng, truths("img1", "unknown"), nil)

	if results[1].Outcome.Succeeded {
		t.Error("unknown image should fail")
	}
	if results[1].Accuracy != 0 {
		t.Errorf("failed record accuracy = %v, want 0", results[1].Accuracy)
	}
	if results[0].Accuracy != 1.0 {
		t.Error("sibling call must be unaffected by the failure")
	}
}

func TestRunnerTimeout(t *testing.T) {
	eng := &stubEngine{
		answers: map[string]string{"img1": "IMG1"},
		delay:   200 * time.Millisecond,
	}

	r := NewRunner(1, 20*time.Millisecond, evaluator.NewRecordEvaluator(true), nil)
	results := r.Run(context.Background(), eng, truths("img1"), nil)

	if results[0].Outcome.Succeeded {
		t.Fatal("call exceeding the deadline must fail")
	}
	if results[0].Outcome.ErrorDetail != "timeout" {
		t.Errorf("error detail = %q, want \"timeout\"", results[0].Outcome.ErrorDetail)
	}
}

func TestRunnerBoundsConcurrency(t *testing.T) {
	answers := make(map[string]string)
	var paths []string
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		answers[p] = strings.ToUpper(p)
		paths = append(paths, p)
	}
	eng := &stubEngine{answers: answers, delay: 20 * time.Millisecond}

	r := NewRunner(2, time.Second, evaluator.NewRecordEvaluator(true), nil)
	r.Run(context.Background(), eng, truths(paths...), nil)

	if max := eng.maxSeen.Load(); max > 2 {
		t.Errorf("observed %d concurrent calls, want at most 2", max)
	}
}

func TestRunnerResolvesPaths(t *testing.T) {
	eng := &stubEngine{answers: map[string]string{"/data/set/img1": "IMG1"}}

	r := NewRunner(1, time.Second, evaluator.NewRecordEvaluator(true), nil)
	results := r.Run(context.Background(), eng, truths("img1"), func(p string) string {
		return "/data/set/" + p
	})

	if !results[0].Outcome.Succeeded {
		t.Fatal("resolver should have mapped the path")
	}
	// the record keeps the manifest path for cross-engine comparison
	if results[0].ImagePath != "img1" || results[0].Outcome.ImagePath != "img1" {
		t.Errorf("manifest path lost: %+v", results[0])
	}
}

func TestRunnerKeepsURLManifestPaths(t *testing.T) {
	const url = "https://cdn.example.com/img1.jpg"
	eng := &stubEngine{answers: map[string]string{url: "ABC123"}}

	dir := dataset.Directory{Name: "set", Path: "/data/set"}
	r := NewRunner(1, time.Second, evaluator.NewRecordEvaluator(true), nil)
	results := r.Run(context.Background(),
		eng,
		[]models.GroundTruthRecord{{ImagePath: url, Transcription: "ABC123"}},
		func(p string) string { return dataset.ResolveImagePath(dir, p) },
	)

	if !results[0].Outcome.Succeeded {
		t.Fatalf("engine never saw the URL unchanged: %+v", results[0].Outcome)
	}
	if results[0].ImagePath != url {
		t.Errorf("record path = %q, want %q", results[0].ImagePath, url)
	}
}
