package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/Angel-crypt/backend-we/pkg/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GradesByAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	grades, err := h.gradeService.ByAssignment(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, grades)
}

func (h *Handler) GradesByTeacher(w http.ResponseWriter, r *http.Request) {
	grades, err := h.gradeService.ByTeacher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, grades)
}

// gradeTarget reads the {asig} and {parcial} path parameters.
func gradeTarget(r *http.Request) (int64, int, error) {
	asig, err := int64Param(r, "asig")
	if err != nil {
		return 0, 0, err
	}
	partial, err := intParam(r, "parcial")
	if err != nil {
		return 0, 0, err
	}
	return asig, partial, nil
}

func (h *Handler) GetPartialGrades(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	asig, partial, err := gradeTarget(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	rows, err := h.gradeService.ForPartial(r.Context(), teacherID, asig, partial)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":              true,
		"data":                 nonNil(rows),
		"total_calificaciones": len(rows),
	})
}

// UploadGrades expects a JSON array of {id_alumno, calificacion}.
func (h *Handler) UploadGrades(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	asig, partial, err := gradeTarget(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var entries []models.GradeEntry
	if err := utils.ReadJSON(r, &entries); err != nil {
		h.handleServiceError(w, r, service.Validation("calificaciones", "a list of grades is required"))
		return
	}

	n, err := h.gradeService.Upload(r.Context(), teacherID, asig, partial, entries)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "grades uploaded",
		"total":   n,
	})
}

func (h *Handler) CheckGradeWindow(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	asig, partial, err := gradeTarget(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	check, err := h.gradeService.Check(r.Context(), teacherID, asig, partial)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":    true,
		"can_upload": check.Allowed,
		"message":    check.Message,
	})
}

func (h *Handler) GetStudentGrade(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	asig, partial, err := gradeTarget(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	studentID := chi.URLParam(r, "alumno")

	score, err := h.gradeService.StudentPartial(r.Context(), teacherID, asig, studentID, partial)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"id_alumno":      studentID,
		"id_asignacion":  asig,
		"numero_parcial": partial,
		"calificacion":   score,
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
