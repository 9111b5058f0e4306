package httpd

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/Angel-crypt/backend-we/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data any) {
	_ = utils.WriteJSON(w, status, data)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{"success": true, "data": data})
}

func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	body := envelope{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, status, body)
}

// writeList always emits an array, never null, with its length as total.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": items, "total": len(items)})
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	body := envelope{"success": false, "error": message}
	if details != nil {
		body["details"] = details
	}
	writeJSON(w, status, body)
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInfra:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError maps a service failure to its status code. Infrastructure
// failures are logged with the request id before being reported.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		h.logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("Unhandled error")
		writeError(w, http.StatusInternalServerError, "internal server error: "+err.Error(), nil)
		return
	}

	status := statusOf(svcErr.Kind)
	message := svcErr.Message
	if svcErr.Kind == service.KindInfra || svcErr.Kind == service.KindPartialFailure {
		h.logger.Error().
			Err(svcErr.Err).
			Str("kind", svcErr.Kind.String()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg(svcErr.Message)
		message = "internal server error: " + svcErr.Error()
	}

	writeError(w, status, message, svcErr.Details)
}

// decodeBody reads JSON into dst and runs its validation tags.
func decodeBody(r *http.Request, dst any) error {
	if err := utils.ReadJSON(r, dst); err != nil {
		return service.Validation("", "invalid request body: %v", err)
	}
	if err := utils.Validate(dst); err != nil {
		var fe *utils.FieldError
		if errors.As(err, &fe) {
			return service.Validation(fe.Field, "%s", fe.Error())
		}
		return service.Validation("", "%v", err)
	}
	return nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.Validation(name, "%s must be a positive integer", name)
	}
	return id, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.Validation(name, "%s must be an integer", name)
	}
	return n, nil
}

func boolQuery(r *http.Request, key string, defaultValue bool) bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
