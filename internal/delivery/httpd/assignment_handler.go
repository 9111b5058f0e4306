package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/service"
)

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignmentService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, rows)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	assignment, err := h.assignmentService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "assignment created", assignment)
}

// GetAssignmentLessonPlan returns the stored PDF link with its course, group
// and teacher. validate_url probes the link, include_metadata adds URL parts.
func (h *Handler) GetAssignmentLessonPlan(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	view, err := h.assignmentService.LessonPlan(r.Context(), id, service.LessonPlanOptions{
		ValidateURL:     boolQuery(r, "validate_url", false),
		IncludeMetadata: boolQuery(r, "include_metadata", false),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "lesson plan found", view)
}

func (h *Handler) ListPartialWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.assignmentService.ListWindows(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, windows)
}

func (h *Handler) CreatePartialWindow(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.CreatePartialWindowRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	window, err := h.assignmentService.CreateWindow(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "partial window created", window)
}

func (h *Handler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slots, err := h.assignmentService.ListSchedule(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, slots)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.SlotRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slot, err := h.assignmentService.CreateSchedule(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "schedule created", slot)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.assignmentService.DeleteSchedule(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "schedule deleted", nil)
}
