package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskqueue/internal/domain"
	"github.com/phrazzld/taskqueue/internal/events"
	"github.com/phrazzld/taskqueue/internal/platform/logger"
	"github.com/phrazzld/taskqueue/internal/task"
)

// WorkQueue is the part of the task queue the service needs.
type WorkQueue interface {
	task.WorkQueueWriter
	Len() int
	Cap() int
	Closed() bool
}

// WorkerStatus reports the processing worker's lifecycle state.
type WorkerStatus interface {
	State() task.WorkerState
}

// MetricsSource provides processing counters.
type MetricsSource interface {
	Snapshot() events.MetricsSnapshot
}

// Stats is a point-in-time view of the service.
type Stats struct {
	QueueLength      int                    `json:"queue_length"`
	QueueCapacity    int                    `json:"queue_capacity"`
	QueueClosed      bool                   `json:"queue_closed"`
	WorkerState      string                 `json:"worker_state"`
	HistorySize      int                    `json:"history_size"`
	HistoryMaxSize   int                    `json:"history_max_size"`
	HistoryRetention string                 `json:"history_retention"`
	Processing       events.MetricsSnapshot `json:"processing"`
}

// WorkService provides work-item operations
type WorkService interface {
	// Submit creates a work item and enqueues it, waiting for capacity up to
	// the configured submit timeout.
	Submit(ctx context.Context, targetName, payload string) (*domain.WorkItem, error)

	// ListRecent returns the retained processed items, oldest first.
	ListRecent(ctx context.Context) ([]domain.ProcessedWorkItem, error)

	// Stats returns queue, worker and processing statistics.
	Stats(ctx context.Context) (*Stats, error)
}

// WorkServiceError wraps errors from the work service with context.
type WorkServiceError struct {
	// Operation is the operation that failed (e.g., "submit")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for WorkServiceError.
func (e *WorkServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("work service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("work service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *WorkServiceError) Unwrap() error {
	return e.Err
}

// NewWorkServiceError creates a new WorkServiceError.
// Service sentinels are returned as is. Queue cancellation and closure are
// reported as ErrQueueBusy and ErrShuttingDown with the queue error still in
// the chain, so callers can tell a cancelled request apart.
func NewWorkServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrQueueBusy), errors.Is(err, ErrShuttingDown):
		return err
	case errors.Is(err, task.ErrOperationCancelled):
		return fmt.Errorf("%w: %w", ErrQueueBusy, err)
	case errors.Is(err, task.ErrQueueClosed):
		return fmt.Errorf("%w: %w", ErrShuttingDown, err)
	}

	return &WorkServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// workServiceImpl implements the WorkService interface
type workServiceImpl struct {
	queue         WorkQueue
	history       task.HistoryReader
	worker        WorkerStatus
	metrics       MetricsSource
	submitTimeout time.Duration
	logger        *slog.Logger
}

// NewWorkService creates a new WorkService.
// metrics may be nil, in which case Stats reports zero counters.
// A non-positive submitTimeout leaves the caller's context as the only deadline.
func NewWorkService(
	queue WorkQueue,
	history task.HistoryReader,
	worker WorkerStatus,
	metrics MetricsSource,
	submitTimeout time.Duration,
	logger *slog.Logger,
) (WorkService, error) {
	if queue == nil {
		return nil, domain.NewValidationError("queue", "cannot be nil", domain.ErrValidation)
	}
	if history == nil {
		return nil, domain.NewValidationError("history", "cannot be nil", domain.ErrValidation)
	}
	if worker == nil {
		return nil, domain.NewValidationError("worker", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &workServiceImpl{
		queue:         queue,
		history:       history,
		worker:        worker,
		metrics:       metrics,
		submitTimeout: submitTimeout,
		logger:        logger.With("component", "work_service"),
	}, nil
}

// Submit implements WorkService.Submit
func (s *workServiceImpl) Submit(ctx context.Context, targetName, payload string) (*domain.WorkItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewWorkItem(targetName, payload)
	if err != nil {
		log.Debug("rejected invalid work item", "error", err)
		return nil, err
	}

	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	if err := s.queue.Enqueue(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("submit cancelled by caller",
				"work_item_id", item.ID,
				"target_name", item.TargetName)
			return nil, NewWorkServiceError("submit", "request cancelled", err)
		}
		log.Warn("failed to enqueue work item",
			"work_item_id", item.ID,
			"target_name", item.TargetName,
			"queue_len", s.queue.Len(),
			"error", err)
		return nil, NewWorkServiceError("submit", "failed to enqueue work item", err)
	}

	log.Info("work item queued",
		"work_item_id", item.ID,
		"target_name", item.TargetName,
		"queue_len", s.queue.Len())

	return item, nil
}

// ListRecent implements WorkService.ListRecent
func (s *workServiceImpl) ListRecent(ctx context.Context) ([]domain.ProcessedWorkItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewWorkServiceError("list_recent", "request cancelled", err)
	}
	return s.history.Snapshot(), nil
}

// Stats implements WorkService.Stats
func (s *workServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewWorkServiceError("stats", "request cancelled", err)
	}

	stats := &Stats{
		QueueLength:      s.queue.Len(),
		QueueCapacity:    s.queue.Cap(),
		QueueClosed:      s.queue.Closed(),
		WorkerState:      s.worker.State().String(),
		HistorySize:      s.history.Len(),
		HistoryMaxSize:   s.history.MaxSize(),
		HistoryRetention: s.history.Retention().String(),
	}
	if s.metrics != nil {
		stats.Processing = s.metrics.Snapshot()
	}

	return stats, nil
}
