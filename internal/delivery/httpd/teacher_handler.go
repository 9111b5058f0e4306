package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teacherService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, teachers)
}

func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, err := h.teacherService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, teacher)
}

func (h *Handler) SearchTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teacherService.SearchByName(r.Context(), chi.URLParam(r, "nombre"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, teachers)
}

func (h *Handler) ListTeachersBySpecialty(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teacherService.ListBySpecialty(r.Context(), chi.URLParam(r, "especialidad"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, teachers)
}

func (h *Handler) ListTeachersByAge(w http.ResponseWriter, r *http.Request) {
	age, err := intParam(r, "edad")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	teachers, err := h.teacherService.ListByMinAge(r.Context(), age)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, teachers)
}

// CreateTeacher creates the user account and the teacher profile together.
func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeacherRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	teacher, err := h.teacherService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "teacher created", teacher)
}

func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.teacherService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "teacher "+id+" deleted", nil)
}

func (h *Handler) TeacherCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.teacherService.Courses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, courses)
}

func (h *Handler) TeacherAvailability(w http.ResponseWriter, r *http.Request) {
	slots, err := h.availabilityService.ForTeacher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, slots)
}
