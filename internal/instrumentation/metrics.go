package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus  = "status"
	attrStage   = "stage"
	attrService = "service"
)

// Metrics provides methods for recording observability metrics.
//
// The zero value is a no-op recorder; every Record method tolerates
// uninitialized instruments so callers never need a nil check.
type Metrics struct {
	webhookRequestsTotal metric.Int64Counter

	pipelineRunsTotal metric.Int64Counter
	stageDuration     metric.Float64Histogram

	plannedEventsTotal metric.Int64Counter
	bookingsTotal      metric.Int64Counter

	externalCallsTotal   metric.Int64Counter
	externalCallDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.webhookRequestsTotal, err = meter.Int64Counter(
		"webhook_requests_total",
		metric.WithDescription("Total number of inbound webhook requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook_requests_total counter: %w", err)
	}

	m.pipelineRunsTotal, err = meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of scheduling pipeline runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_runs_total counter: %w", err)
	}

	m.stageDuration, err = meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Duration of pipeline stages in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_stage_duration_seconds histogram: %w", err)
	}

	m.plannedEventsTotal, err = meter.Int64Counter(
		"planned_events_total",
		metric.WithDescription("Total number of events produced by the planner"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planned_events_total counter: %w", err)
	}

	m.bookingsTotal, err = meter.Int64Counter(
		"bookings_total",
		metric.WithDescription("Total number of booking attempts by status"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings_total counter: %w", err)
	}

	m.externalCallsTotal, err = meter.Int64Counter(
		"external_calls_total",
		metric.WithDescription("Total number of external service calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create external_calls_total counter: %w", err)
	}

	m.externalCallDuration, err = meter.Float64Histogram(
		"external_call_duration_seconds",
		metric.WithDescription("External service call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create external_call_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordWebhookRequest records an inbound webhook request with its response
// status ("ok" or "ignored").
func (m *Metrics) RecordWebhookRequest(ctx context.Context, status string) {
	if m.webhookRequestsTotal == nil {
		return
	}
	m.webhookRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordPipelineRun records one end-to-end pipeline run.
func (m *Metrics) RecordPipelineRun(ctx context.Context, duration time.Duration) {
	if m.pipelineRunsTotal == nil || m.stageDuration == nil {
		return
	}
	m.pipelineRunsTotal.Add(ctx, 1)
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrStage, "run"),
	))
}

// RecordStage records the duration of a single pipeline stage ("plan" or "book").
func (m *Metrics) RecordStage(ctx context.Context, stage string, duration time.Duration) {
	if m.stageDuration == nil {
		return
	}
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrStage, stage),
	))
}

// RecordPlannedEvents records the number of events a plan produced.
func (m *Metrics) RecordPlannedEvents(ctx context.Context, count int) {
	if m.plannedEventsTotal == nil {
		return
	}
	m.plannedEventsTotal.Add(ctx, int64(count))
}

// RecordBooking records a single booking attempt.
// Status should be one of: "booked", "failed".
func (m *Metrics) RecordBooking(ctx context.Context, status string) {
	if m.bookingsTotal == nil {
		return
	}
	m.bookingsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordExternalCall records a call to an external collaborator
// (service: "llm", "calendar", "telegram") with its status and duration.
func (m *Metrics) RecordExternalCall(ctx context.Context, service, status string, duration time.Duration) {
	if m.externalCallsTotal == nil || m.externalCallDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrStatus, status),
	}
	m.externalCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.externalCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
