// Package api exposes the work queue over HTTP: submitting work items,
// listing recently processed items and reporting statistics.
//
// Handlers decode and validate requests, delegate to service.WorkService and
// translate errors through MapErrorToStatusCode and GetSafeErrorMessage, so
// internal error text never reaches clients.
package api
