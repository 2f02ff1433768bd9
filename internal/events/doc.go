// Package events carries processing notifications from the worker to
// observability handlers.
//
// The worker emits a ProcessingEvent for its own start and stop and for every
// item it starts, completes, fails, or abandons during shutdown. Handlers are
// registered on an EventEmitter; the worker never depends on their success.
//
// The primary components are:
// - ProcessingEvent: a structured lifecycle notification
// - EventHandler / EventEmitter: the publish/subscribe interfaces
// - InMemoryEventEmitter: synchronous fan-out to registered handlers
// - MetricsHandler: atomic counters exposed through Snapshot
package events
