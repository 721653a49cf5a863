package calendar

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar service for event creation.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client authenticated by the given token
// source. Token acquisition happens lazily on the first API call, so a dead
// credential surfaces as a create-event failure rather than here.
func NewClient(ctx context.Context, tokenSource oauth2.TokenSource) (*Client, error) {
	if tokenSource == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// CreateEvent creates a new calendar event and returns the service's echoed
// view of it. The ISO timestamps are passed through verbatim; the service is
// authoritative for validating them.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start:       &calendar.EventDateTime{DateTime: input.StartISO},
		End:         &calendar.EventDateTime{DateTime: input.EndISO},
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}
