// Package service contains the application use cases that sit between the
// HTTP layer and the task package: submitting work, reading the processed
// history and reporting runtime statistics.
//
// Services receive their collaborators through constructor injection and
// translate task-level errors into the service-level sentinels that the API
// layer maps to status codes.
package service
