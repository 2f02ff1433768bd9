package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps each to a status code.
var (
	// ErrQueueBusy indicates the queue stayed full until the submit deadline.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrQueueBusy = errors.New("work queue is full, try again later")

	// ErrShuttingDown indicates the queue no longer accepts work.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrShuttingDown = errors.New("service is shutting down")
)
