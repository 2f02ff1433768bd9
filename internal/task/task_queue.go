package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskqueue/internal/domain"
)

// DefaultQueueCapacity is used when a non-positive capacity is requested.
const DefaultQueueCapacity = 100

// WorkQueue is a bounded FIFO of work items that satisfies both
// WorkQueueReader and WorkQueueWriter. Submitters wait while it is full.
type WorkQueue struct {
	items chan *domain.WorkItem

	// mu serializes sends with Close, so nothing is accepted once closed
	mu     sync.Mutex
	closed chan struct{}

	// space is closed and replaced each time a slot frees up
	space chan struct{}

	logger *slog.Logger
}

// NewWorkQueue creates a work queue holding at most capacity items.
func NewWorkQueue(capacity int, logger *slog.Logger) *WorkQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		logger.Warn("invalid work queue capacity, using default",
			"requested", capacity,
			"default", DefaultQueueCapacity)
		capacity = DefaultQueueCapacity
	}

	return &WorkQueue{
		items:  make(chan *domain.WorkItem, capacity),
		closed: make(chan struct{}),
		space:  make(chan struct{}),
		logger: logger.With("component", "work_queue"),
	}
}

// Enqueue appends item to the tail of the queue.
// When the queue is full it waits until the worker frees a slot, ctx is done,
// or the queue is closed. Items are never dropped to make room, and an item
// is never accepted after Close has returned.
func (q *WorkQueue) Enqueue(ctx context.Context, item *domain.WorkItem) error {
	if item == nil {
		return domain.ErrNilWorkItem
	}
	if ctx.Err() != nil {
		return cancelledError(ctx)
	}

	waiting := false
	for {
		sent, space, err := q.trySend(item)
		if err != nil {
			return err
		}
		if sent {
			q.logEnqueued(item)
			return nil
		}

		if !waiting {
			waiting = true
			q.logger.Debug("work queue full, waiting for capacity",
				"work_item_id", item.ID,
				"queue_cap", cap(q.items))
		}

		select {
		case <-space:
		case <-ctx.Done():
			q.logger.Debug("enqueue cancelled while waiting for capacity",
				"work_item_id", item.ID,
				"error", ctx.Err())
			return cancelledError(ctx)
		case <-q.closed:
			return ErrQueueClosed
		}
	}
}

// trySend attempts a non-blocking send. When the queue is full it returns the
// channel that will be closed once a slot frees up.
func (q *WorkQueue) trySend(item *domain.WorkItem) (bool, <-chan struct{}, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.isClosed() {
		return false, nil, ErrQueueClosed
	}
	select {
	case q.items <- item:
		return true, nil, nil
	default:
		return false, q.space, nil
	}
}

// Dequeue removes and returns the item at the head of the queue,
// waiting until one is available, ctx is done, or the queue is closed.
// Once closed, Dequeue returns ErrQueueClosed even if items remain.
func (q *WorkQueue) Dequeue(ctx context.Context) (*domain.WorkItem, error) {
	if ctx.Err() != nil {
		return nil, cancelledError(ctx)
	}
	if q.isClosed() {
		return nil, ErrQueueClosed
	}

	select {
	case item := <-q.items:
		q.signalSpace()
		q.logger.Debug("work item dequeued",
			"work_item_id", item.ID,
			"queue_len", len(q.items))
		return item, nil
	case <-ctx.Done():
		return nil, cancelledError(ctx)
	case <-q.closed:
		return nil, ErrQueueClosed
	}
}

// signalSpace wakes every submitter waiting for capacity.
func (q *WorkQueue) signalSpace() {
	q.mu.Lock()
	defer q.mu.Unlock()

	close(q.space)
	q.space = make(chan struct{})
}

// Close stops the queue from accepting or handing out items and releases
// every waiting caller. It is safe to call more than once.
func (q *WorkQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.isClosed() {
		return
	}
	close(q.closed)
	q.logger.Info("work queue closed", "abandoned_items", len(q.items))
}

// Closed reports whether Close has been called.
func (q *WorkQueue) Closed() bool {
	return q.isClosed()
}

// Len returns the number of items waiting in the queue.
func (q *WorkQueue) Len() int {
	return len(q.items)
}

// Cap returns the maximum number of items the queue holds.
func (q *WorkQueue) Cap() int {
	return cap(q.items)
}

func (q *WorkQueue) isClosed() bool {
	select {
	case <-q.closed:
		return true
	default:
		return false
	}
}

func (q *WorkQueue) logEnqueued(item *domain.WorkItem) {
	q.logger.Debug("work item enqueued",
		"work_item_id", item.ID,
		"target_name", item.TargetName,
		"queue_len", len(q.items),
		"queue_cap", cap(q.items))
}
