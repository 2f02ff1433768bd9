package events

import (
	"context"
	"sync/atomic"
	"time"
)

// MetricsHandler counts processing events. It is safe for concurrent use.
type MetricsHandler struct {
	started         atomic.Uint64
	succeeded       atomic.Uint64
	failed          atomic.Uint64
	cancelled       atomic.Uint64
	lastCompletedAt atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Started         uint64     `json:"started"`
	Succeeded       uint64     `json:"succeeded"`
	Failed          uint64     `json:"failed"`
	Cancelled       uint64     `json:"cancelled"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// NewMetricsHandler creates a MetricsHandler with zeroed counters.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// HandleEvent implements EventHandler.
func (m *MetricsHandler) HandleEvent(_ context.Context, event *ProcessingEvent) error {
	switch event.Type {
	case EventItemStarted:
		m.started.Add(1)
	case EventItemSucceeded:
		m.succeeded.Add(1)
		m.lastCompletedAt.Store(event.OccurredAt.UnixNano())
	case EventItemFailed:
		m.failed.Add(1)
	case EventItemCancelled:
		m.cancelled.Add(1)
	}
	return nil
}

// Snapshot returns the current counter values.
func (m *MetricsHandler) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{
		Started:   m.started.Load(),
		Succeeded: m.succeeded.Load(),
		Failed:    m.failed.Load(),
		Cancelled: m.cancelled.Load(),
	}
	if nanos := m.lastCompletedAt.Load(); nanos != 0 {
		completedAt := time.Unix(0, nanos).UTC()
		snapshot.LastCompletedAt = &completedAt
	}
	return snapshot
}

// Reset zeroes all counters.
func (m *MetricsHandler) Reset() {
	m.started.Store(0)
	m.succeeded.Store(0)
	m.failed.Store(0)
	m.cancelled.Store(0)
	m.lastCompletedAt.Store(0)
}
