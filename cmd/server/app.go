package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskqueue/internal/config"
	"github.com/phrazzld/taskqueue/internal/domain"
	"github.com/phrazzld/taskqueue/internal/events"
	"github.com/phrazzld/taskqueue/internal/redact"
	"github.com/phrazzld/taskqueue/internal/service"
	"github.com/phrazzld/taskqueue/internal/service/auth"
	"github.com/phrazzld/taskqueue/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config
	logger *slog.Logger

	// Processing pipeline
	queue   *task.WorkQueue
	history *task.History
	worker  *task.Worker

	// Observability
	eventEmitter *events.InMemoryEventEmitter
	metrics      *events.MetricsHandler

	// Service interfaces
	workService service.WorkService
	jwtService  auth.JWTService // nil when submitter authentication is disabled
}

// newApplication creates a new application instance with all dependencies initialized.
// The worker is created but not started; Run starts it.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	return newApplicationWithProcessor(cfg, logger, task.NewSimulatedProcessor(cfg.Worker.ProcessingDelay))
}

// newApplicationWithProcessor is newApplication with a caller-supplied processor.
func newApplicationWithProcessor(
	cfg *config.Config,
	logger *slog.Logger,
	processor task.Processor,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	if cfg.Auth.Enabled() {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("Submitter authentication enabled",
			"token_lifetime", cfg.Auth.TokenLifetime)
	} else {
		logger.Warn("Submitter authentication disabled, work submission is open")
	}

	app.queue = task.NewWorkQueue(cfg.Queue.Capacity, logger)
	app.history = task.NewHistory(cfg.History.Retention, cfg.History.MaxSize)

	app.worker, err = task.NewWorker(app.queue, app.history, processor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	app.metrics = events.NewMetricsHandler()
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(app.metrics,
		events.EventItemStarted,
		events.EventItemSucceeded,
		events.EventItemFailed,
		events.EventItemCancelled)
	app.worker.SetEventEmitter(app.eventEmitter)
	app.worker.SetErrorHandler(func(item *domain.WorkItem, err error) {
		logger.Warn("work item dropped after failure",
			"work_item_id", item.ID,
			"target_name", item.TargetName,
			"error", redact.Error(err))
	})

	app.workService, err = service.NewWorkService(
		app.queue,
		app.history,
		app.worker,
		app.metrics,
		cfg.Server.SubmitTimeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create work service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the worker and the HTTP server, and blocks until ctx is done
// or the server fails. Shutdown is always attempted before returning.
func (app *application) Run(ctx context.Context) error {
	if err := app.worker.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// stopWorker stops the worker within the configured grace period and
// reports items left in the queue.
func (app *application) stopWorker() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	err := app.worker.Stop(ctx)
	if err != nil {
		app.logger.Error("Worker did not stop cleanly", "error", err)
	}

	if abandoned := app.queue.Len(); abandoned > 0 {
		app.logger.Warn("Abandoning queued work items on shutdown", "count", abandoned)
	}

	return err
}
