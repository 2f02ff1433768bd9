package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/phrazzld/taskqueue/internal/domain"
	"github.com/phrazzld/taskqueue/internal/events"
	"github.com/phrazzld/taskqueue/internal/redact"
)

// WorkerState describes where a worker is in its lifecycle.
// States only move forward: Starting, Running, Stopping, Stopped.
type WorkerState int32

const (
	WorkerStarting WorkerState = iota
	WorkerRunning
	WorkerStopping
	WorkerStopped
)

// String returns the lowercase state name.
func (s WorkerState) String() string {
	switch s {
	case WorkerStarting:
		return "starting"
	case WorkerRunning:
		return "running"
	case WorkerStopping:
		return "stopping"
	case WorkerStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Worker drains a work queue one item at a time on a single goroutine,
// recording successes in a History. A failing item is reported and dropped;
// it never stops the worker.
type Worker struct {
	// queue is the only source of work; a single reader keeps delivery exactly-once
	queue WorkQueueReader

	// history receives every successfully processed item
	history *History

	// processor does the actual work for an item
	processor Processor

	// emitter receives lifecycle notifications; nil disables them
	emitter events.EventEmitter

	// errorHandler is called when an item fails
	// If nil, failures are only logged
	errorHandler func(item *domain.WorkItem, err error)

	// ctx is cancelled by Stop and passed to the processor
	ctx    context.Context
	cancel context.CancelFunc

	state atomic.Int32
	done  chan struct{}

	logger   *slog.Logger
	timeFunc func() time.Time
}

// NewWorker creates a worker in the Starting state. Nothing runs until Start.
func NewWorker(queue WorkQueueReader, history *History, processor Processor, logger *slog.Logger) (*Worker, error) {
	if queue == nil {
		return nil, errors.New("work queue cannot be nil")
	}
	if history == nil {
		return nil, errors.New("history cannot be nil")
	}
	if processor == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		queue:     queue,
		history:   history,
		processor: processor,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    logger.With("component", "worker"),
		timeFunc:  time.Now,
	}
	w.state.Store(int32(WorkerStarting))

	return w, nil
}

// SetEventEmitter sets the observability sink. Call it before Start.
func (w *Worker) SetEventEmitter(emitter events.EventEmitter) {
	w.emitter = emitter
}

// SetErrorHandler sets a callback for failed items. Call it before Start.
func (w *Worker) SetErrorHandler(handler func(item *domain.WorkItem, err error)) {
	w.errorHandler = handler
}

// State returns the current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// Done is closed once the worker has reached Stopped.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Start launches the processing loop. A worker can be started only once.
func (w *Worker) Start() error {
	if !w.state.CompareAndSwap(int32(WorkerStarting), int32(WorkerRunning)) {
		if w.State() == WorkerRunning {
			return ErrWorkerAlreadyStarted
		}
		return ErrWorkerStopped
	}

	go w.run()
	return nil
}

// Stop cancels the in-flight item and waits for the loop to exit, or for ctx
// to end, whichever comes first. A worker that was never started moves
// straight to Stopped. Stop is safe to call more than once.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()

	if w.state.CompareAndSwap(int32(WorkerStarting), int32(WorkerStopped)) {
		close(w.done)
		w.logger.Info("worker stopped before it was started")
		return nil
	}
	w.state.CompareAndSwap(int32(WorkerRunning), int32(WorkerStopping))

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn("worker did not stop within grace period", "error", ctx.Err())
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

func (w *Worker) run() {
	defer close(w.done)

	w.logger.Info("work item processor is starting")
	w.emit(events.NewWorkerEvent(events.EventWorkerStarted))

loop:
	for {
		item, err := w.queue.Dequeue(w.ctx)
		if err != nil {
			switch {
			case errors.Is(err, ErrOperationCancelled):
				w.logger.Debug("dequeue cancelled, leaving processing loop")
			case errors.Is(err, ErrQueueClosed):
				w.logger.Debug("work queue closed, leaving processing loop")
			default:
				w.logger.Error("unexpected dequeue failure, leaving processing loop",
					"error", redact.Error(err))
			}
			break loop
		}

		w.processItem(item)
	}

	w.state.Store(int32(WorkerStopping))
	w.logger.Info("work item processor is stopping")
	w.emit(events.NewWorkerEvent(events.EventWorkerStopped))
	w.state.Store(int32(WorkerStopped))
}

func (w *Worker) processItem(item *domain.WorkItem) {
	logger := w.logger.With(
		"work_item_id", item.ID,
		"target_name", item.TargetName)

	logger.Info("processing work item")
	w.emit(events.NewItemEvent(events.EventItemStarted, item, ""))

	err := w.execute(item)
	if err == nil {
		var processed domain.ProcessedWorkItem
		processed, err = domain.NewProcessedWorkItem(item, w.completionTime(item))
		if err == nil {
			w.history.Append(processed)
			logger.Info("finished processing work item",
				"elapsed", processed.CompletedAt.Sub(processed.EnqueuedAt))
			w.emit(events.NewItemEvent(events.EventItemSucceeded, item, ""))
			return
		}
	}

	if w.ctx.Err() != nil && errors.Is(err, context.Canceled) {
		logger.Info("processing cancelled by shutdown, item not recorded")
		w.emit(events.NewItemEvent(events.EventItemCancelled, item, ""))
		return
	}

	detail := redact.Error(err)
	logger.Error("error processing work item", "error", detail)
	w.emit(events.NewItemEvent(events.EventItemFailed, item, detail))

	if w.errorHandler != nil {
		w.errorHandler(item, err)
	}
}

// execute runs the processor, converting a panic into an error.
func (w *Worker) execute(item *domain.WorkItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("recovered from processor panic",
				"work_item_id", item.ID,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrProcessingPanic, r)
		}
	}()

	return w.processor.Process(w.ctx, *item)
}

// completionTime never precedes the enqueue time, even if the wall clock stepped back.
func (w *Worker) completionTime(item *domain.WorkItem) time.Time {
	now := w.timeFunc().UTC()
	if now.Before(item.EnqueuedAt) {
		return item.EnqueuedAt
	}
	return now
}

// emit delivers an event without letting the sink affect processing.
func (w *Worker) emit(event *events.ProcessingEvent) {
	if w.emitter == nil || event == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Warn("event emitter panicked",
				"event_type", event.Type,
				"panic", r)
		}
	}()

	if err := w.emitter.EmitEvent(context.Background(), event); err != nil {
		w.logger.Debug("event emitter returned error",
			"event_type", event.Type,
			"error", err)
	}
}
