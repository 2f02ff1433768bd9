package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskqueue/internal/api"
	apiMiddleware "github.com/phrazzld/taskqueue/internal/api/middleware"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Task Queue</title></head>
<body>
<h1>Task Queue</h1>
<ul>
<li><code>POST /simulate-update</code> enqueue a work item: <code>{"target_name": "...", "payload": "..."}</code></li>
<li><code>GET /tasks</code> recently processed work items</li>
<li><code>GET /stats</code> queue, worker and processing statistics</li>
<li><code>GET /health</code> liveness check</li>
</ul>
</body>
</html>
`

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	workItemHandler := api.NewWorkItemHandler(app.workService)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(indexPage)); err != nil {
			app.logger.Error("Failed to write index page", "error", err)
		}
	})

	r.Group(func(r chi.Router) {
		if app.jwtService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate)
		}
		r.Post("/simulate-update", workItemHandler.SubmitWorkItem)
	})

	r.Get("/tasks", workItemHandler.ListRecentWorkItems)
	r.Get("/stats", workItemHandler.GetStats)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
