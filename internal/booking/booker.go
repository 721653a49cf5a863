package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"schedbot/internal/calendar"
	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
	"schedbot/internal/schedule"
)

// summaryFallback is substituted into failure messages for events that
// arrived without a summary. A malformed event must never crash the loop.
const summaryFallback = "event"

// CalendarService is the slice of the calendar client the booker needs.
type CalendarService interface {
	CreateEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
}

// ClientFactory acquires an authenticated calendar service. It is invoked
// once per batch, making it the credential-acquisition point: a factory
// failure fails every event in the batch with the same cause.
type ClientFactory func(ctx context.Context) (CalendarService, error)

// Booker creates calendar entries for planned events, one outcome per event.
//
// Events are booked independently and sequentially in input order. One
// event's failure never prevents the remaining events from being attempted,
// and nothing is rolled back: bookings are not transactional across the
// sequence.
type Booker struct {
	factory    ClientFactory
	calendarID string
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a Booker.
type Option func(*Booker)

// WithMetrics sets the metrics recorder for external-call instrumentation.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(b *Booker) { b.metrics = metrics }
}

// New creates a Booker that books events into the given calendar.
func New(factory ClientFactory, calendarID string, logger *slog.Logger, opts ...Option) *Booker {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Booker{
		factory:    factory,
		calendarID: calendarID,
		logger:     logging.WithService(logger, "booking"),
		metrics:    &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Book implements schedule.Booker. The returned slice always has the same
// length and order as the input.
func (b *Booker) Book(ctx context.Context, events []schedule.PlannedEvent) []schedule.BookingOutcome {
	outcomes := make([]schedule.BookingOutcome, 0, len(events))
	if len(events) == 0 {
		return outcomes
	}

	svc, err := b.factory(ctx)
	if err != nil {
		// Hard dependency failure: every event in the batch fails with the
		// same cause, but the caller still sees one outcome per event.
		b.logger.Error("calendar client unavailable, failing batch",
			logging.Operation("book"), logging.Events(len(events)), logging.Err(err))
		for _, event := range events {
			outcomes = append(outcomes, failedOutcome(event, err))
		}
		return outcomes
	}

	for _, event := range events {
		outcomes = append(outcomes, b.bookOne(ctx, svc, event))
	}
	return outcomes
}

func (b *Booker) bookOne(ctx context.Context, svc CalendarService, event schedule.PlannedEvent) schedule.BookingOutcome {
	if err := validate(event); err != nil {
		b.metrics.RecordBooking(ctx, string(schedule.StatusFailed))
		return failedOutcome(event, err)
	}

	start := time.Now()
	created, err := svc.CreateEvent(ctx, b.calendarID, calendar.EventInput{
		Summary:     event.Summary,
		Description: event.Description,
		StartISO:    event.StartISO,
		EndISO:      event.EndISO,
	})

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	b.metrics.RecordExternalCall(ctx, "calendar", status, time.Since(start))

	if err != nil {
		b.logger.Warn("booking failed", logging.Operation("book"), logging.Err(err))
		return failedOutcome(event, err)
	}

	b.logger.Debug("event booked", logging.Operation("book"))
	return schedule.BookingOutcome{
		Summary: event.Summary,
		Status:  schedule.StatusBooked,
		// The service's echoed values are authoritative, not the local copy.
		Detail: fmt.Sprintf("Created: %s at %s", created.Summary, created.Start),
	}
}

// validate rejects events that would be meaningless to submit. The check is
// intentionally shallow: timestamps that merely look plausible are left to
// the calendar service, which is authoritative for their validity.
func validate(event schedule.PlannedEvent) error {
	if event.Summary == "" {
		return fmt.Errorf("missing required field summary")
	}
	if event.StartISO == "" {
		return fmt.Errorf("missing required field start_iso")
	}
	if event.EndISO == "" {
		return fmt.Errorf("missing required field end_iso")
	}
	start, startErr := time.Parse(time.RFC3339, event.StartISO)
	end, endErr := time.Parse(time.RFC3339, event.EndISO)
	if startErr == nil && endErr == nil && !start.Before(end) {
		return fmt.Errorf("event must start before it ends")
	}
	return nil
}

func failedOutcome(event schedule.PlannedEvent, cause error) schedule.BookingOutcome {
	name := event.Summary
	if name == "" {
		name = summaryFallback
	}
	return schedule.BookingOutcome{
		Summary: event.Summary,
		Status:  schedule.StatusFailed,
		Detail:  fmt.Sprintf("Failed to book %s: %v", name, cause),
	}
}
