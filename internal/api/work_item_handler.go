package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskqueue/internal/api/shared"
	"github.com/phrazzld/taskqueue/internal/platform/logger"
	"github.com/phrazzld/taskqueue/internal/service"
)

// WorkItemHandler handles work-item HTTP requests
type WorkItemHandler struct {
	workService service.WorkService
}

// NewWorkItemHandler creates a new WorkItemHandler
func NewWorkItemHandler(workService service.WorkService) *WorkItemHandler {
	return &WorkItemHandler{
		workService: workService,
	}
}

// SubmitWorkItem handles POST /simulate-update requests.
// It blocks while the queue is full, up to the service's submit timeout.
func (h *WorkItemHandler) SubmitWorkItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req SubmitWorkItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	item, err := h.workService.Submit(r.Context(), req.TargetName, req.Payload)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if submitter, ok := shared.GetSubmitter(r.Context()); ok {
		log.Info("work item submitted", "work_item_id", item.ID, "submitter", submitter)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitWorkItemResponse{
		Message: submitAcceptedMessage,
		ID:      item.ID.String(),
	})
}

// ListRecentWorkItems handles GET /tasks requests
func (h *WorkItemHandler) ListRecentWorkItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.workService.ListRecent(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, processedToResponse(items))
}

// GetStats handles GET /stats requests
func (h *WorkItemHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.workService.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
