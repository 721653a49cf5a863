package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedbot/internal/calendar"
	"schedbot/internal/schedule"
)

type stubCalendar struct {
	created []calendar.EventInput
	failOn  map[int]error // index into created at call time
	echo    func(input calendar.EventInput) calendar.EventSummary
}

func (s *stubCalendar) CreateEvent(_ context.Context, _ string, input calendar.EventInput) (*calendar.EventSummary, error) {
	call := len(s.created)
	s.created = append(s.created, input)
	if err, ok := s.failOn[call]; ok {
		return nil, err
	}
	echo := calendar.EventSummary{Summary: input.Summary, Start: input.StartISO}
	if s.echo != nil {
		echo = s.echo(input)
	}
	return &echo, nil
}

func factoryFor(svc CalendarService) ClientFactory {
	return func(context.Context) (CalendarService, error) { return svc, nil }
}

func newTestBooker(factory ClientFactory) *Booker {
	return New(factory, "primary", slog.New(slog.DiscardHandler))
}

func validEvent(summary string) schedule.PlannedEvent {
	return schedule.PlannedEvent{
		Summary:  summary,
		StartISO: "2025-06-02T12:00:00+02:00",
		EndISO:   "2025-06-02T13:00:00+02:00",
	}
}

func TestBookEmptyBatch(t *testing.T) {
	factoryCalls := 0
	b := newTestBooker(func(context.Context) (CalendarService, error) {
		factoryCalls++
		return nil, errors.New("unreachable")
	})

	outcomes := b.Book(context.Background(), nil)

	assert.Empty(t, outcomes)
	assert.Zero(t, factoryCalls, "empty batch must not acquire a credential")
}

func TestBookSuccess(t *testing.T) {
	stub := &stubCalendar{}
	outcomes := newTestBooker(factoryFor(stub)).Book(context.Background(), []schedule.PlannedEvent{
		validEvent("Lunch with Sam"),
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, schedule.StatusBooked, outcomes[0].Status)
	assert.Equal(t, "Created: Lunch with Sam at 2025-06-02T12:00:00+02:00", outcomes[0].Detail)
}

// Confirmation text must use the values echoed back by the service, not the
// locally-held copies.
func TestBookUsesServiceEchoedValues(t *testing.T) {
	stub := &stubCalendar{echo: func(calendar.EventInput) calendar.EventSummary {
		return calendar.EventSummary{Summary: "Lunch with Sam (normalized)", Start: "2025-06-02T10:00:00Z"}
	}}

	outcomes := newTestBooker(factoryFor(stub)).Book(context.Background(), []schedule.PlannedEvent{
		validEvent("Lunch with Sam"),
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, "Created: Lunch with Sam (normalized) at 2025-06-02T10:00:00Z", outcomes[0].Detail)
}

func TestBookSecondEventFailureDoesNotShortCircuit(t *testing.T) {
	stub := &stubCalendar{failOn: map[int]error{1: errors.New("quota exceeded")}}

	outcomes := newTestBooker(factoryFor(stub)).Book(context.Background(), []schedule.PlannedEvent{
		validEvent("First"),
		validEvent("Second"),
		validEvent("Third"),
	})

	require.Len(t, outcomes, 3)
	assert.Equal(t, schedule.StatusBooked, outcomes[0].Status)
	assert.Equal(t, schedule.StatusFailed, outcomes[1].Status)
	assert.Equal(t, "Failed to book Second: quota exceeded", outcomes[1].Detail)
	assert.Equal(t, schedule.StatusBooked, outcomes[2].Status, "third event must still be attempted")
	assert.Len(t, stub.created, 3)
}

func TestBookOutcomeOrderMatchesInput(t *testing.T) {
	stub := &stubCalendar{}
	events := []schedule.PlannedEvent{
		validEvent("A"), validEvent("B"), validEvent("C"), validEvent("D"),
	}

	outcomes := newTestBooker(factoryFor(stub)).Book(context.Background(), events)

	require.Len(t, outcomes, len(events))
	for i, event := range events {
		assert.Equal(t, event.Summary, outcomes[i].Summary, "outcome %d out of order", i)
	}
}

// An event with no summary fails with the literal fallback token instead of
// crashing the loop.
func TestBookMissingSummaryUsesFallbackToken(t *testing.T) {
	stub := &stubCalendar{}
	outcomes := newTestBooker(factoryFor(stub)).Book(context.Background(), []schedule.PlannedEvent{
		{StartISO: "2025-06-02T12:00:00+02:00", EndISO: "2025-06-02T13:00:00+02:00"},
		validEvent("Fine"),
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, schedule.StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Detail, "Failed to book event:")
	assert.Equal(t, schedule.StatusBooked, outcomes[1].Status)
	assert.Len(t, stub.created, 1, "the malformed event must not reach the service")
}

func TestBookRejectsInvertedTimes(t *testing.T) {
	stub := &stubCalendar{}
	outcomes := newTestBooker(factoryFor(stub)).Book(context.Background(), []schedule.PlannedEvent{
		{
			Summary:  "Backwards",
			StartISO: "2025-06-02T14:00:00+02:00",
			EndISO:   "2025-06-02T13:00:00+02:00",
		},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, schedule.StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Detail, "start before it ends")
	assert.Empty(t, stub.created)
}

// A credential failure fails the whole batch with the same cause, itemized
// per event.
func TestBookCredentialFailureFailsWholeBatch(t *testing.T) {
	cause := errors.New("oauth token expired or missing")
	b := newTestBooker(func(context.Context) (CalendarService, error) {
		return nil, cause
	})

	outcomes := b.Book(context.Background(), []schedule.PlannedEvent{
		validEvent("First"), validEvent("Second"),
	})

	require.Len(t, outcomes, 2)
	for i, outcome := range outcomes {
		assert.Equal(t, schedule.StatusFailed, outcome.Status, "outcome %d", i)
		assert.Equal(t, fmt.Sprintf("Failed to book %s: %v", outcomes[i].Summary, cause), outcome.Detail)
	}
}

// Booking identical events twice books twice. The booker must not remember
// earlier batches.
func TestBookNoDeduplicationAcrossBatches(t *testing.T) {
	stub := &stubCalendar{}
	b := newTestBooker(factoryFor(stub))
	event := validEvent("Lunch with Sam")

	first := b.Book(context.Background(), []schedule.PlannedEvent{event})
	second := b.Book(context.Background(), []schedule.PlannedEvent{event})

	assert.Equal(t, first, second)
	assert.Len(t, stub.created, 2, "identical event must be submitted again")
}
