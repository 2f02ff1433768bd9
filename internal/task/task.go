package task

import (
	"context"
	"time"

	"github.com/phrazzld/taskqueue/internal/domain"
)

// WorkQueueReader provides consume-only access to the work queue.
// Exactly one worker reads from a queue; that is what makes delivery exactly-once.
type WorkQueueReader interface {
	// Dequeue blocks until an item is available, the queue is closed, or ctx is done.
	Dequeue(ctx context.Context) (*domain.WorkItem, error)
}

// WorkQueueWriter provides submit-only access to the work queue.
type WorkQueueWriter interface {
	// Enqueue appends item, waiting for capacity when the queue is full.
	Enqueue(ctx context.Context, item *domain.WorkItem) error
}

// HistoryReader provides read-only access to processed work items.
type HistoryReader interface {
	// Snapshot returns an independent copy of the retained items in completion order.
	Snapshot() []domain.ProcessedWorkItem

	// Len returns the number of retained items after pruning.
	Len() int

	// Retention and MaxSize report the limits applied on every read and write.
	Retention() time.Duration
	MaxSize() int
}

// Processor performs the work a single item describes.
// Implementations should return promptly once ctx is cancelled.
type Processor interface {
	Process(ctx context.Context, item domain.WorkItem) error
}

// ProcessorFunc adapts an ordinary function to the Processor interface.
type ProcessorFunc func(ctx context.Context, item domain.WorkItem) error

// Process calls f(ctx, item).
func (f ProcessorFunc) Process(ctx context.Context, item domain.WorkItem) error {
	return f(ctx, item)
}
