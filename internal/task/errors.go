package task

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the queue and the worker
var (
	// ErrOperationCancelled is returned when Enqueue, Dequeue or processing is
	// aborted by context cancellation. The context error is wrapped alongside it.
	ErrOperationCancelled = errors.New("operation cancelled")

	// ErrQueueClosed is returned once the queue has been shut down.
	ErrQueueClosed = errors.New("work queue is closed")

	// ErrWorkerAlreadyStarted is returned when Start is called more than once.
	ErrWorkerAlreadyStarted = errors.New("worker already started")

	// ErrWorkerStopped is returned when Start is called after Stop.
	ErrWorkerStopped = errors.New("worker is stopped")

	// ErrShutdownTimeout is returned when the worker does not stop within the grace period.
	ErrShutdownTimeout = errors.New("worker did not stop before the grace period expired")

	// ErrProcessingPanic wraps a value recovered from a panicking processor.
	ErrProcessingPanic = errors.New("panic while processing work item")
)

// cancelledError reports why ctx ended as a distinguishable cancellation.
func cancelledError(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrOperationCancelled, context.Cause(ctx))
}
