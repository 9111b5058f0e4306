package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	dashboard, err := h.portalService.Dashboard(r.Context(), teacherID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dashboard)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	teacher, err := h.teacherService.Get(r.Context(), teacherID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, teacher)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	teacher, err := h.teacherService.UpdateProfile(r.Context(), teacherID, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "profile updated", teacher)
}

func (h *Handler) TeacherGroups(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	groups, err := h.portalService.Groups(r.Context(), teacherID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, groups)
}

func (h *Handler) GroupStudents(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	students, err := h.portalService.GroupStudents(r.Context(), teacherID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, students)
}

func (h *Handler) GroupDetails(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	details, err := h.portalService.GroupDetails(r.Context(), teacherID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, details)
}

func (h *Handler) TeacherAssignments(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	assignments, err := h.portalService.Assignments(r.Context(), teacherID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, assignments)
}

func (h *Handler) AssignmentStudents(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	students, err := h.portalService.AssignmentStudents(r.Context(), teacherID, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, students)
}

func (h *Handler) AssignmentSchedule(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	schedule, err := h.portalService.AssignmentSchedule(r.Context(), teacherID, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, schedule)
}
