package task

import (
	"slices"
	"sync"
	"time"

	"github.com/phrazzld/taskqueue/internal/domain"
)

// History defaults applied when a non-positive value is requested.
const (
	DefaultHistoryRetention = 5 * time.Minute
	DefaultHistoryMaxSize   = 200
)

// History is a bounded record of completed work items, ordered by completion.
// Entries older than the retention window are pruned first, then the oldest
// entries beyond maxSize. Pruning happens on every Append and Snapshot.
type History struct {
	mu        sync.Mutex
	entries   []domain.ProcessedWorkItem
	retention time.Duration
	maxSize   int
	timeFunc  func() time.Time
}

// NewHistory creates an empty history.
func NewHistory(retention time.Duration, maxSize int) *History {
	if retention <= 0 {
		retention = DefaultHistoryRetention
	}
	if maxSize <= 0 {
		maxSize = DefaultHistoryMaxSize
	}

	return &History{
		entries:   make([]domain.ProcessedWorkItem, 0, maxSize),
		retention: retention,
		maxSize:   maxSize,
		timeFunc:  time.Now,
	}
}

// Append records a completed item at the tail and prunes.
func (h *History) Append(item domain.ProcessedWorkItem) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, item)
	h.pruneLocked()
}

// Snapshot prunes and returns a copy of the retained entries, oldest first.
// The result is never nil and is not affected by later appends.
func (h *History) Snapshot() []domain.ProcessedWorkItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pruneLocked()
	out := make([]domain.ProcessedWorkItem, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len prunes and returns the number of retained entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pruneLocked()
	return len(h.entries)
}

// Retention returns the age limit for entries.
func (h *History) Retention() time.Duration {
	return h.retention
}

// MaxSize returns the count limit for entries.
func (h *History) MaxSize() int {
	return h.maxSize
}

func (h *History) pruneLocked() {
	cutoff := h.timeFunc().Add(-h.retention)
	h.entries = slices.DeleteFunc(h.entries, func(e domain.ProcessedWorkItem) bool {
		return e.CompletedAt.Before(cutoff)
	})

	if excess := len(h.entries) - h.maxSize; excess > 0 {
		h.entries = slices.Delete(h.entries, 0, excess)
	}
}
