package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkItem is a unit of requested work waiting to be processed.
// Its identifier and enqueue timestamp are fixed at creation.
type WorkItem struct {
	ID         uuid.UUID `json:"id"`
	TargetName string    `json:"target_name"`
	Payload    string    `json:"payload"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewWorkItem creates a WorkItem with a fresh identifier and the current UTC time.
// The payload is opaque and may be empty; the target name is required.
func NewWorkItem(targetName, payload string) (*WorkItem, error) {
	item := &WorkItem{
		ID:         uuid.New(),
		TargetName: strings.TrimSpace(targetName),
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the WorkItem has valid data.
func (w *WorkItem) Validate() error {
	if w == nil {
		return ErrNilWorkItem
	}

	if w.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrEmptyWorkItemID)
	}

	if w.TargetName == "" {
		return NewValidationError("target_name", "is required", ErrEmptyTargetName)
	}

	if w.EnqueuedAt.IsZero() {
		return NewValidationError("enqueued_at", "is required", ErrMissingEnqueuedAt)
	}

	return nil
}

// ProcessedWorkItem is the immutable record of a completed WorkItem.
type ProcessedWorkItem struct {
	ID          uuid.UUID `json:"id"`
	TargetName  string    `json:"target_name"`
	Payload     string    `json:"payload"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewProcessedWorkItem records the completion of item at completedAt.
// The completion time is converted to UTC and must not precede the enqueue time.
func NewProcessedWorkItem(item *WorkItem, completedAt time.Time) (ProcessedWorkItem, error) {
	if item == nil {
		return ProcessedWorkItem{}, ErrNilWorkItem
	}

	completedAt = completedAt.UTC()
	if completedAt.Before(item.EnqueuedAt) {
		return ProcessedWorkItem{}, NewValidationError(
			"completed_at",
			"must not precede enqueued_at",
			ErrCompletedBeforeEnqueued,
		)
	}

	return ProcessedWorkItem{
		ID:          item.ID,
		TargetName:  item.TargetName,
		Payload:     item.Payload,
		EnqueuedAt:  item.EnqueuedAt,
		CompletedAt: completedAt,
	}, nil
}
