package observer

import (
	"context"
	"testing"
	"time"
)

func TestMetricsObserverAccumulates(t *testing.T) {
	obs := NewMetricsObserver().(*MetricsObserver)
	ctx := context.Background()

	obs.OnEvent(ctx, RecognitionEvent{EventType: RecognitionStarted, EngineName: "stub", ImagePath: "img1"})
	obs.OnEvent(ctx, RecognitionEvent{EventType: RecognitionStarted, EngineName: "stub", ImagePath: "img2"})
	obs.OnEvent(ctx, RecognitionEvent{EventType: RecognitionCompleted, EngineName: "stub", ImagePath: "img1", Latency: 10 * time.Millisecond})
	obs.OnEvent(ctx, RecognitionEvent{EventType: RecognitionFailed, EngineName: "stub", ImagePath: "img2", ErrorDetail: "timeout"})

	metrics := obs.GetMetrics()
	if got := metrics["total_calls"].(int64); got != 2 {
		t.Errorf("total_calls = %d, want 2", got)
	}
	if got := metrics["successful_calls"].(int64); got != 1 {
		t.Errorf("successful_calls = %d, want 1", got)
	}
	if got := metrics["failed_calls"].(int64); got != 1 {
		t.Errorf("failed_calls = %d, want 1", got)
	}
	if got := metrics["avg_latency"].(time.Duration); got != 10*time.Millisecond {
		t.Errorf("avg_latency = %v, want 10ms", got)
	}
}

func TestMetricsObserverRunCompletedDoesNotMutate(t *testing.T) {
	obs := NewMetricsObserver().(*MetricsObserver)
	ctx := context.Background()

	obs.OnEvent(ctx, RecognitionEvent{EventType: RecognitionStarted, EngineName: "stub"})
	obs.OnEvent(ctx, RecognitionEvent{EventType: RecognitionCompleted, EngineName: "stub", Latency: time.Millisecond})
	before := obs.GetMetrics()

	obs.OnEvent(ctx, RecognitionEvent{EventType: RunCompleted, EngineName: "stub"})

	after := obs.GetMetrics()
	if before["total_calls"] != after["total_calls"] || before["successful_calls"] != after["successful_calls"] {
		t.Errorf("run-completed flush must not change counters: before %v, after %v", before, after)
	}
}
