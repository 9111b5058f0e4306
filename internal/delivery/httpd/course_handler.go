package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.Lookup(r.Context(), chi.URLParam(r, "identificador"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, course)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	course, err := h.courseService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "course created", course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCourseRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	course, changes, err := h.courseService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "course updated",
		"data":    course,
		"cambios": changes,
	})
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "course "+course.ID+" deleted", course)
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, groups)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.Lookup(r.Context(), chi.URLParam(r, "identificador"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, groups)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	group, err := h.groupService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "group created", group)
}
