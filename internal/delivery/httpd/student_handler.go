package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.studentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, student)
}

func (h *Handler) SearchStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.SearchByName(r.Context(), chi.URLParam(r, "nombre"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, students)
}

func (h *Handler) ListStudentsByGroup(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.ListByGroup(r.Context(), chi.URLParam(r, "id_grupo"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, students)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	student, err := h.studentService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "student created", student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStudentRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	student, err := h.studentService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "student updated", student)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.studentService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "student "+id+" deleted", nil)
}
