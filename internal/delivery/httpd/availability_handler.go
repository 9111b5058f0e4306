package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
)

func (h *Handler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slots, err := h.availabilityService.List(r.Context(), teacherID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, slots)
}

func (h *Handler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.SlotRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slot, err := h.availabilityService.Create(r.Context(), teacherID, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "availability created", slot)
}

func (h *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.UpdateAvailabilityRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slot, err := h.availabilityService.Update(r.Context(), teacherID, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "availability updated", slot)
}

func (h *Handler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.DeleteAvailabilityRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slot, err := h.availabilityService.Delete(r.Context(), teacherID, req.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "availability deleted", slot)
}

func (h *Handler) AvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	summary, err := h.availabilityService.Summary(r.Context(), teacherID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":       true,
		"data":          summary,
		"total_bloques": summary.Total(),
	})
}
