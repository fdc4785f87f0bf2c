package runner

import (
	"context"
	"errors"
	"time"

	"go-ocr-benchmark/internal/engine"
	"go-ocr-benchmark/internal/evaluator"
	"go-ocr-benchmark/internal/observer"
	"go-ocr-benchmark/pkg/models"
)

// PathResolver maps a manifest-relative image path to a fetchable location.
type PathResolver func(imagePath string) string

// Runner drives one engine over a set of ground-truth records with a bounded
// worker pool. Each call carries its own deadline; one image failing or
// timing out never cancels sibling calls or the run.
type Runner struct {
	workers     int
	callTimeout time.Duration
	evaluator   *evaluator.RecordEvaluator
	events      observer.Subject
}

// NewRunner creates a runner. The events subject may be nil.
func NewRunner(workers int, callTimeout time.Duration, eval *evaluator.RecordEvaluator, events observer.Subject) *Runner {
	return &Runner{
		workers:     workers,
		callTimeout: callTimeout,
		evaluator:   eval,
		events:      events,
	}
}

// Run evaluates every record against the engine and returns scored records
// in manifest order. It blocks until all in-flight calls have completed.
func (r *Runner) Run(ctx context.Context, eng engine.Engine, records []models.GroundTruthRecord, resolve PathResolver) []models.EvaluationRecord {
	results := make([]models.EvaluationRecord, len(records))

	pool := NewWorkerPool(r.workers)
	pool.Start()
	defer pool.Close()

	for i, gt := range records {
		i, gt := i, gt
		pool.Submit(func() {
			results[i] = r.runOne(ctx, eng, gt, resolve)
		})
	}

	pool.Wait()

	r.publish(ctx, observer.RecognitionEvent{
		EventType:  observer.RunCompleted,
		Timestamp:  time.Now().UTC(),
		EngineName: eng.Name(),
		Success:    true,
		Metadata:   map[string]interface{}{"images": len(records)},
	})

	return results
}

func (r *Runner) runOne(ctx context.Context, eng engine.Engine, gt models.GroundTruthRecord, resolve PathResolver) models.EvaluationRecord {
	r.publish(ctx, observer.RecognitionEvent{
		EventType:  observer.RecognitionStarted,
		Timestamp:  time.Now().UTC(),
		EngineName: eng.Name(),
		ImagePath:  gt.ImagePath,
	})

	callCtx := ctx
	cancel := func() {}
	if r.callTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, r.callTimeout)
	}
	defer cancel()

	target := gt.ImagePath
	if resolve != nil {
		target = resolve(gt.ImagePath)
	}

	outcome := eng.Recognize(callCtx, target)
	// scoring and comparison key on the manifest path, not the resolved one
	outcome.ImagePath = gt.ImagePath

	if !outcome.Succeeded && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		outcome.ErrorDetail = "timeout"
	}

	event := observer.RecognitionEvent{
		Timestamp:   time.Now().UTC(),
		EngineName:  eng.Name(),
		ImagePath:   gt.ImagePath,
		Latency:     outcome.Latency,
		Success:     outcome.Succeeded,
		ErrorDetail: outcome.ErrorDetail,
	}
	if outcome.Succeeded {
		event.EventType = observer.RecognitionCompleted
	} else {
		event.EventType = observer.RecognitionFailed
	}
	r.publish(ctx, event)

	return r.evaluator.Evaluate(gt, outcome)
}

func (r *Runner) publish(ctx context.Context, event observer.RecognitionEvent) {
	if r.events != nil {
		r.events.NotifyObservers(ctx, event)
	}
}
