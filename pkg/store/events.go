package store

import (
	"context"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
)

// EventsStore persists the event log.
type EventsStore interface {
	// AppendEvents adds committed events to the log
	AppendEvents(ctx context.Context, events []event.Event) error

	// FilterEvents returns logged events matching filter, oldest first
	FilterEvents(ctx context.Context, filter event.Filter) ([]event.Event, error)
}
