package planner

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	response  string
	err       error
	gotPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.response, s.err
}

func testRef() time.Time {
	return time.Date(2025, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))
}

func newTestPlanner(c *stubCompleter) *Planner {
	return New(c, slog.New(slog.DiscardHandler))
}

func TestPlanDecodesEvents(t *testing.T) {
	stub := &stubCompleter{response: `[
		{"summary":"Lunch with Sam","start_iso":"2025-06-02T12:00:00+02:00","end_iso":"2025-06-02T13:00:00+02:00","description":"at the deli"}
	]`}

	events := newTestPlanner(stub).Plan(context.Background(), "Lunch with Sam tomorrow at noon for an hour", testRef())

	require.Len(t, events, 1)
	assert.Equal(t, "Lunch with Sam", events[0].Summary)
	assert.Equal(t, "2025-06-02T12:00:00+02:00", events[0].StartISO)
	assert.Equal(t, "2025-06-02T13:00:00+02:00", events[0].EndISO)
	assert.Equal(t, "at the deli", events[0].Description)
}

// Fenced output with a language tag must parse identically to the same JSON
// supplied unwrapped.
func TestPlanFencedOutputEqualsUnfenced(t *testing.T) {
	payload := `[{"summary":"Standup","start_iso":"2025-06-02T09:00:00+02:00","end_iso":"2025-06-02T09:30:00+02:00","description":""}]`

	plain := newTestPlanner(&stubCompleter{response: payload}).
		Plan(context.Background(), "standup", testRef())
	fenced := newTestPlanner(&stubCompleter{response: "```json\n" + payload + "\n```"}).
		Plan(context.Background(), "standup", testRef())

	assert.Equal(t, plain, fenced)
	require.Len(t, fenced, 1)
}

func TestPlanNotJSONReturnsEmpty(t *testing.T) {
	events := newTestPlanner(&stubCompleter{response: "not json at all"}).
		Plan(context.Background(), "lunch", testRef())
	assert.Empty(t, events)
}

// A valid JSON object that is not an array is a total planning failure, not
// a one-element plan.
func TestPlanNonArrayJSONReturnsEmpty(t *testing.T) {
	events := newTestPlanner(&stubCompleter{response: `{"summary":"Lunch","start_iso":"x","end_iso":"y"}`}).
		Plan(context.Background(), "lunch", testRef())
	assert.Empty(t, events)
}

func TestPlanCompletionErrorReturnsEmpty(t *testing.T) {
	events := newTestPlanner(&stubCompleter{err: errors.New("upstream down")}).
		Plan(context.Background(), "lunch", testRef())
	assert.Empty(t, events)
}

// Mildly damaged JSON (trailing comma) is recovered by the repair pass
// rather than discarding the whole plan.
func TestPlanRepairsDamagedJSON(t *testing.T) {
	stub := &stubCompleter{response: `[{"summary":"Lunch","start_iso":"2025-06-02T12:00:00+02:00","end_iso":"2025-06-02T12:30:00+02:00",}]`}

	events := newTestPlanner(stub).Plan(context.Background(), "lunch", testRef())

	require.Len(t, events, 1)
	assert.Equal(t, "Lunch", events[0].Summary)
}

// Malformed individual events still reach the booking stage; the planner
// performs no per-event validation.
func TestPlanKeepsMalformedEvents(t *testing.T) {
	stub := &stubCompleter{response: `[
		{"summary":"Good","start_iso":"2025-06-02T12:00:00+02:00","end_iso":"2025-06-02T12:30:00+02:00"},
		{"start_iso":"2025-06-02T13:00:00+02:00","end_iso":"2025-06-02T13:30:00+02:00"}
	]`}

	events := newTestPlanner(stub).Plan(context.Background(), "two things", testRef())

	require.Len(t, events, 2)
	assert.Empty(t, events[1].Summary)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Lunch with Sam tomorrow", testRef())

	assert.Contains(t, prompt, "Today is 2025-06-01")
	assert.Contains(t, prompt, "UTC offset is +0200")
	assert.Contains(t, prompt, "between 1 and 7 events")
	assert.Contains(t, prompt, "default to 30 minutes")
	assert.Contains(t, prompt, "Lunch with Sam tomorrow")
}
