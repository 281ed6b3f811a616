package calendar

import (
	"context"
	"time"
)

type Availability string

const (
	AvailabilityFree Availability = "free"
	AvailabilityBusy Availability = "busy"
)

// Event is one calendar entry inside the meeting lookahead window.
type Event struct {
	ID           string       `json:"id"`
	Start        time.Time    `json:"start"`
	End          time.Time    `json:"end"`
	AllDay       bool         `json:"all_day"`
	Availability Availability `json:"availability"`
}

// Ongoing reports whether the event covers the instant at.
func (e Event) Ongoing(at time.Time) bool {
	return !e.Start.After(at) && e.End.After(at)
}

// Blocking reports whether the event should drive a meeting override:
// all-day and free-availability events never do.
func (e Event) Blocking() bool {
	return !e.AllDay && e.Availability != AvailabilityFree
}

// Provider is the query boundary to the user's calendars. calendarID ""
// means all calendars.
type Provider interface {
	Calendars(ctx context.Context) ([]string, error)
	EventsOverlapping(ctx context.Context, start, end time.Time, calendarID string) ([]Event, error)
}
