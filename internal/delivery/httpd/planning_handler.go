package httpd

import (
	"io"
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/go-chi/chi/v5"
)

// UploadLessonPlan stores the multipart "file" PDF for an assignment the
// teacher owns and answers with its public URL.
func (h *Handler) UploadLessonPlan(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	asig, err := int64Param(r, "asig")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.handleServiceError(w, r, service.Validation("file", "invalid multipart form: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.handleServiceError(w, r, service.Validation("file", "no file was sent"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.handleServiceError(w, r, service.Validation("file", "failed to read file: %v", err))
		return
	}

	url, err := h.lessonPlanService.Upload(r.Context(), teacherID, asig, header.Filename, data)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"url":     url,
		"message": "lesson plan uploaded",
	})
}

func (h *Handler) GetLessonPlan(w http.ResponseWriter, r *http.Request) {
	teacherID, err := currentUser(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	asig, err := int64Param(r, "asig")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	url, err := h.lessonPlanService.Get(r.Context(), teacherID, asig)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "url": url})
}

func (h *Handler) ListLessonPlans(w http.ResponseWriter, r *http.Request) {
	rows, err := h.lessonPlanService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, rows)
}

func (h *Handler) LessonPlansByTeacher(w http.ResponseWriter, r *http.Request) {
	rows, err := h.lessonPlanService.ByTeacher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeList(w, rows)
}
