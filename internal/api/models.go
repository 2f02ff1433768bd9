package api

import (
	"time"

	"github.com/phrazzld/taskqueue/internal/domain"
)

// SubmitWorkItemRequest defines the payload for the work submission endpoint.
type SubmitWorkItemRequest struct {
	// TargetName names what the work applies to; surrounding whitespace is ignored
	TargetName string `json:"target_name" validate:"required,max=256"`

	// Payload is opaque to the service
	Payload string `json:"payload" validate:"max=65536"`
}

// SubmitWorkItemResponse defines the successful response for work submission.
type SubmitWorkItemResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ProcessedWorkItemResponse describes one completed work item.
type ProcessedWorkItemResponse struct {
	ID          string    `json:"id"`
	TargetName  string    `json:"target_name"`
	Payload     string    `json:"payload"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// submitAcceptedMessage is returned once a work item is in the queue.
const submitAcceptedMessage = "Task queued"

func processedToResponse(items []domain.ProcessedWorkItem) []ProcessedWorkItemResponse {
	response := make([]ProcessedWorkItemResponse, len(items))
	for i, item := range items {
		response[i] = ProcessedWorkItemResponse{
			ID:          item.ID.String(),
			TargetName:  item.TargetName,
			Payload:     item.Payload,
			EnqueuedAt:  item.EnqueuedAt,
			CompletedAt: item.CompletedAt,
		}
	}
	return response
}
