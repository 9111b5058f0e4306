package httpd

import (
	"net/http"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/Angel-crypt/backend-we/internal/session"
)

func (h *Handler) Login(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		token, sess, err := h.authService.Login(r.Context(), &req, role)
		if h.metrics != nil {
			h.metrics.ObserveLogin(role.String(), err == nil)
		}
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		session.SetCookie(w, h.cookie, token)
		writeMessage(w, http.StatusOK, "login successful", map[string]any{
			"user_id": sess.UserID,
			"role":    sess.Role,
			"token":   token,
		})
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromRequest(r, h.cookie.Name)
	if err := h.authService.Logout(r.Context(), token); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	session.ClearCookie(w, h.cookie)
	writeMessage(w, http.StatusOK, "session closed", nil)
}

// Session reports whether the caller holds a live session of role.
func (h *Handler) Session(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := session.TokenFromRequest(r, h.cookie.Name)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{
				"success":       false,
				"authenticated": false,
				"error":         "no active session",
			})
			return
		}

		sess, err := h.authService.Authenticate(r.Context(), token)
		if err != nil {
			if service.IsKind(err, service.KindAuth) {
				writeJSON(w, http.StatusUnauthorized, envelope{
					"success":       false,
					"authenticated": false,
					"error":         "no active session",
				})
				return
			}
			h.handleServiceError(w, r, err)
			return
		}
		if sess.Role != role {
			writeJSON(w, http.StatusForbidden, envelope{
				"success":       false,
				"authenticated": false,
				"error":         "invalid role",
			})
			return
		}

		writeJSON(w, http.StatusOK, envelope{
			"success":       true,
			"authenticated": true,
			"data": map[string]any{
				"user_id":    sess.UserID,
				"role":       sess.Role,
				"expires_at": sess.ExpiresAt,
			},
		})
	}
}
