package schedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
)

// NoEventsMessage is the fixed summary returned when a run produces no
// outcomes.
const NoEventsMessage = "No events were scheduled."

// Planner converts a free-text instruction plus a reference timestamp into
// an ordered sequence of candidate events. Planning never fails the
// pipeline: on any decode or validation error it returns an empty slice.
type Planner interface {
	Plan(ctx context.Context, instructions string, ref time.Time) []PlannedEvent
}

// Booker attempts to create each planned event as a remote calendar entry,
// returning one outcome per event in the same order. A failed event never
// prevents the remaining events from being attempted.
type Booker interface {
	Book(ctx context.Context, events []PlannedEvent) []BookingOutcome
}

// Pipeline sequences Planner then Booker for one instruction and renders a
// human-readable summary of the outcomes.
//
// A Pipeline is stateless across invocations; all collaborators are injected
// at construction and runs share no mutable state, so one value can serve
// concurrent requests.
type Pipeline struct {
	planner Planner
	booker  Booker
	logger  *slog.Logger
	clock   func() time.Time
	tracer  trace.Tracer
	metrics *instrumentation.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the reference-timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithTracer sets the tracer used for stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(p *Pipeline) { p.metrics = metrics }
}

// NewPipeline creates a Pipeline with the given collaborators.
func NewPipeline(planner Planner, booker Booker, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		planner: planner,
		booker:  booker,
		logger:  logger,
		clock:   time.Now,
		tracer:  noop.NewTracerProvider().Tracer("schedule"),
		metrics: &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one end-to-end pipeline run: plan, book, render.
//
// The reference timestamp is captured once at entry so both stages see the
// same clock reading. Booking never starts before planning completes, and
// the booker is invoked even on an empty plan. Run always returns a summary;
// every failure mode has already been converted to a textual outcome by the
// time rendering happens.
func (p *Pipeline) Run(ctx context.Context, instructions string) string {
	runStart := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	state := State{
		Instructions: instructions,
		Reference:    p.clock(),
	}

	planStart := time.Now()
	planCtx, planSpan := p.tracer.Start(ctx, "pipeline.plan")
	state.Events = p.planner.Plan(planCtx, state.Instructions, state.Reference)
	planSpan.SetAttributes(attribute.Int("events.planned", len(state.Events)))
	planSpan.End()
	p.metrics.RecordStage(ctx, "plan", time.Since(planStart))
	p.metrics.RecordPlannedEvents(ctx, len(state.Events))

	bookStart := time.Now()
	bookCtx, bookSpan := p.tracer.Start(ctx, "pipeline.book")
	state.Outcomes = p.booker.Book(bookCtx, state.Events)
	bookSpan.SetAttributes(attribute.Int("events.booked", countBooked(state.Outcomes)))
	bookSpan.End()
	p.metrics.RecordStage(ctx, "book", time.Since(bookStart))
	for _, outcome := range state.Outcomes {
		p.metrics.RecordBooking(ctx, string(outcome.Status))
	}

	p.metrics.RecordPipelineRun(ctx, time.Since(runStart))
	p.logger.Info("pipeline run complete",
		logging.Operation("run"),
		logging.Events(len(state.Events)),
		slog.Int("booked", countBooked(state.Outcomes)),
		slog.Duration(logging.KeyDuration, time.Since(runStart)),
	)

	return RenderSummary(state.Outcomes)
}

// RenderSummary renders outcomes as newline-joined detail lines in their
// original order, or the fixed no-events message when there are none.
func RenderSummary(outcomes []BookingOutcome) string {
	if len(outcomes) == 0 {
		return NoEventsMessage
	}
	lines := make([]string, len(outcomes))
	for i, outcome := range outcomes {
		lines[i] = outcome.Detail
	}
	return strings.Join(lines, "\n")
}

func countBooked(outcomes []BookingOutcome) int {
	n := 0
	for _, outcome := range outcomes {
		if outcome.Status == StatusBooked {
			n++
		}
	}
	return n
}
