// Package events is the in-process bus the modules communicate over.
// Request lifecycle changes and commission ledger movements are published
// here and consumed by the notification and billing modules. The package
// carries infrastructure only; event payloads live in internal/events.
package events

import (
	"context"
	"time"
)

// Event is implemented by every published payload.
type Event interface {
	// EventName uniquely identifies the event type and is the key
	// handlers subscribe under.
	EventName() string
	// OccurredAt reports when the event was raised.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp half of the Event contract; payload
// structs embed it and add their own EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event was raised.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events it subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to subscribed handlers.
type Bus interface {
	// Publish dispatches to every handler subscribed under the event's
	// name. Handlers run asynchronously; failures are logged, not
	// returned.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches and waits for every handler, returning the
	// first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an Event.EventName value.
	Subscribe(eventName string, handler Handler)
}
