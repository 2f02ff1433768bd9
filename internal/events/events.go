package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskqueue/internal/domain"
)

// EventType identifies a processing lifecycle notification.
type EventType string

// Event types published by the processing worker.
const (
	EventWorkerStarted EventType = "worker.started"
	EventWorkerStopped EventType = "worker.stopped"
	EventItemStarted   EventType = "item.started"
	EventItemSucceeded EventType = "item.succeeded"
	EventItemFailed    EventType = "item.failed"
	EventItemCancelled EventType = "item.cancelled"
)

// ProcessingEvent is a structured notification about the worker or one work item.
type ProcessingEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened
	Type EventType `json:"type"`

	// WorkItemID is uuid.Nil for worker-level events
	WorkItemID uuid.UUID `json:"work_item_id,omitempty"`

	TargetName string `json:"target_name,omitempty"`

	// Detail carries the redacted failure reason for item.failed events
	Detail string `json:"detail,omitempty"`

	// OccurredAt is the UTC timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewWorkerEvent creates a worker-level event.
func NewWorkerEvent(eventType EventType) *ProcessingEvent {
	return &ProcessingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// NewItemEvent creates an event about a single work item.
func NewItemEvent(eventType EventType, item *domain.WorkItem, detail string) *ProcessingEvent {
	event := NewWorkerEvent(eventType)
	event.Detail = detail
	if item != nil {
		event.WorkItemID = item.ID
		event.TargetName = item.TargetName
	}
	return event
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ProcessingEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// The worker publishes through this interface without knowing which handlers exist.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ProcessingEvent) error
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *ProcessingEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ProcessingEvent) error {
	return f(ctx, event)
}
