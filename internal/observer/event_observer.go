package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RecognitionEvent represents a recognition run event
type RecognitionEvent struct {
	EventType   EventType              `json:"event_type"`
	Timestamp   time.Time              `json:"timestamp"`
	EngineName  string                 `json:"engine_name"`
	ImagePath   string                 `json:"image_path"`
	Latency     time.Duration          `json:"latency"`
	Success     bool                   `json:"success"`
	ErrorDetail string                 `json:"error_detail,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of recognition event
type EventType string

const (
	// RecognitionStarted when an engine call begins
	RecognitionStarted EventType = "recognition_started"
	// RecognitionCompleted when an engine call finishes successfully
	RecognitionCompleted EventType = "recognition_completed"
	// RecognitionFailed when an engine call fails or times out
	RecognitionFailed EventType = "recognition_failed"
	// RunCompleted when the full image set for an engine has been processed
	RunCompleted EventType = "run_completed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event RecognitionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event RecognitionEvent)
}

// LoggingObserver logs recognition events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles recognition events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event RecognitionEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"engine":     event.EngineName,
		"image":      event.ImagePath,
		"latency":    event.Latency,
		"success":    event.Success,
	}

	if event.ErrorDetail != "" {
		fields["error"] = event.ErrorDetail
	}

	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case RecognitionStarted:
		o.logger.WithFields(fields).Debug("Recognition started")
	case RecognitionCompleted:
		o.logger.WithFields(fields).Debug("Recognition completed")
	case RecognitionFailed:
		o.logger.WithFields(fields).Warn("Recognition failed")
	case RunCompleted:
		o.logger.WithFields(fields).Info("Recognition run completed")
	default:
		o.logger.WithFields(fields).Info("Recognition event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects metrics from recognition events
type MetricsObserver struct {
	mu              sync.RWMutex
	totalCalls      int64
	successfulCalls int64
	failedCalls     int64
	totalLatency    time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() Observer {
	return &MetricsObserver{}
}

// OnEvent handles recognition events by collecting metrics. A run-completed
// event flushes the accumulated totals to the log.
func (o *MetricsObserver) OnEvent(ctx context.Context, event RecognitionEvent) {
	if event.EventType == RunCompleted {
		logrus.WithFields(logrus.Fields(o.GetMetrics())).
			WithField("engine", event.EngineName).
			Info("Recognition run metrics")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case RecognitionStarted:
		o.totalCalls++
	case RecognitionCompleted:
		o.successfulCalls++
		o.totalLatency += event.Latency
	case RecognitionFailed:
		o.failedCalls++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgLatency := time.Duration(0)
	if o.successfulCalls > 0 {
		avgLatency = o.totalLatency / time.Duration(o.successfulCalls)
	}

	return map[string]interface{}{
		"total_calls":      o.totalCalls,
		"successful_calls": o.successfulCalls,
		"failed_calls":     o.failedCalls,
		"total_latency":    o.totalLatency,
		"avg_latency":      avgLatency,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event RecognitionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
