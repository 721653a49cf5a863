package schedule

import "time"

// PlannedEvent is one candidate calendar event produced by the planner.
//
// Timestamps are kept as the ISO 8601 strings the model produced; the
// calendar service is authoritative for validating them, so the booking
// stage passes them through untouched. Events are never mutated after
// creation.
type PlannedEvent struct {
	Summary     string `json:"summary"`
	StartISO    string `json:"start_iso"`
	EndISO      string `json:"end_iso"`
	Description string `json:"description,omitempty"`
}

// OutcomeStatus is the terminal result of one booking attempt.
type OutcomeStatus string

// Booking outcome statuses.
const (
	StatusBooked OutcomeStatus = "booked"
	StatusFailed OutcomeStatus = "failed"
)

// BookingOutcome is the recorded result of booking one PlannedEvent.
// Outcomes keep the count and order of the events they were produced from.
type BookingOutcome struct {
	Summary string
	Status  OutcomeStatus
	Detail  string
}

// State is the carrier threaded through the two pipeline stages. It is
// created empty at pipeline entry, filled stage by stage, and discarded
// after the summary is rendered. Nothing is persisted across runs.
type State struct {
	Instructions string
	Reference    time.Time
	Events       []PlannedEvent
	Outcomes     []BookingOutcome
}
