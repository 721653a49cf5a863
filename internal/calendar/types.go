package calendar

import (
	calendar "google.golang.org/api/calendar/v3"
)

// EventInput represents the input for creating a calendar event. Timestamps
// are ISO 8601 strings carrying a UTC offset, exactly as planned.
type EventInput struct {
	Summary     string
	Description string
	StartISO    string
	EndISO      string
}

// EventSummary is the service's echoed view of a created event.
type EventSummary struct {
	ID      string
	Summary string
	Start   string
	End     string
	Link    string
}

// toEventSummary converts a Google Calendar event to an EventSummary.
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:      event.Id,
		Summary: event.Summary,
		Link:    event.HtmlLink,
	}
	if event.Start != nil {
		summary.Start = event.Start.DateTime
		if summary.Start == "" {
			summary.Start = event.Start.Date
		}
	}
	if event.End != nil {
		summary.End = event.End.DateTime
		if summary.End == "" {
			summary.End = event.End.Date
		}
	}
	return summary
}
