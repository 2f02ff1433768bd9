package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrNilEvent is returned when EmitEvent is called without an event.
var ErrNilEvent = errors.New("processing event cannot be nil")

// subscription pairs a handler with the event types it wants.
// An empty types list matches every event.
type subscription struct {
	handler EventHandler
	types   []EventType
}

func (s subscription) wants(eventType EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventEmitter delivers processing events to subscribed handlers on
// the emitting goroutine, in subscription order.
type InMemoryEventEmitter struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no subscribers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler subscribes handler to the listed event types, or to all
// of them when none are listed.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...EventType) {
	if handler == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscriptions = append(e.subscriptions, subscription{
		handler: handler,
		types:   slices.Clone(types),
	})
	e.logger.Debug("registered event handler",
		"subscriptions", len(e.subscriptions),
		"event_types", types)
}

// EmitEvent delivers event to every handler subscribed to its type.
// A handler that fails or panics does not keep the event from the others;
// the first failure is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *ProcessingEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	e.mu.RLock()
	subs := slices.Clone(e.subscriptions)
	e.mu.RUnlock()

	var firstErr error
	delivered := 0
	for _, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++

		if err := deliver(ctx, sub.handler, event); err != nil {
			e.logger.Warn("event handler failed",
				"error", err,
				"event_id", event.ID,
				"event_type", event.Type,
				"work_item_id", event.WorkItemID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if delivered == 0 {
		e.logger.Debug("no handler subscribed to event", "event_type", event.Type)
	}
	return firstErr
}

func deliver(ctx context.Context, handler EventHandler, event *ProcessingEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked on %s: %v", event.Type, r)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
