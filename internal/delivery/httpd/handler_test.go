package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/Angel-crypt/backend-we/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type fakeAuth struct {
	sessions map[string]*session.Session
}

func (f *fakeAuth) Login(context.Context, *models.LoginRequest, models.Role) (string, *session.Session, error) {
	return "", nil, service.Unauthenticated("invalid credentials")
}

func (f *fakeAuth) Logout(context.Context, string) error { return nil }

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*session.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, service.Unauthenticated("session expired or invalid")
	}
	return s, nil
}

func (f *fakeAuth) CreateAdmin(context.Context, string, string) error { return nil }

type fakeCourses struct {
	courses   []models.Course
	createErr error
	listErr   error
}

func (f *fakeCourses) List(context.Context) ([]models.Course, error) {
	return f.courses, f.listErr
}

func (f *fakeCourses) Lookup(_ context.Context, id string) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			return &f.courses[i], nil
		}
	}
	return nil, service.NotFound("course %s not found", id)
}

func (f *fakeCourses) Create(_ context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Course{ID: req.ID, Name: req.Name}, nil
}

func (f *fakeCourses) Update(context.Context, string, *models.UpdateCourseRequest) (*models.Course, []service.CourseChange, error) {
	return nil, nil, service.NotFound("course not found")
}

func (f *fakeCourses) Delete(context.Context, string) (*models.Course, error) {
	return nil, service.NotFound("course not found")
}

const (
	adminToken   = "admin-token"
	teacherToken = "teacher-token"
)

func newTestRouter(courses *fakeCourses) http.Handler {
	auth := &fakeAuth{sessions: map[string]*session.Session{
		adminToken:   {UserID: "ADM001", Role: models.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)},
		teacherToken: {UserID: "MAE001", Role: models.RoleTeacher, ExpiresAt: time.Now().Add(time.Hour)},
	}}
	h := NewHandler(
		Services{Auth: auth, Courses: courses},
		session.CookieOptions{Name: "session", TTL: time.Hour},
		10<<20,
		nil,
		zerolog.Nop(),
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func TestRequireRole(t *testing.T) {
	router := newTestRouter(&fakeCourses{courses: []models.Course{{ID: "MAT101", Name: "Calculo"}}})

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no session", "/admin/cursos", "", http.StatusUnauthorized},
		{"unknown token", "/admin/cursos", "bogus", http.StatusUnauthorized},
		{"teacher on admin route", "/admin/cursos", teacherToken, http.StatusForbidden},
		{"admin on teacher route", "/maestro/dashboard", adminToken, http.StatusForbidden},
		{"admin on admin route", "/admin/cursos", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, tt.path, tt.token, "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%v)", tt.status, rec.Code, body)
			}
			if tt.status != http.StatusOK && body["success"] != false {
				t.Fatalf("expected success=false, got %v", body)
			}
		})
	}
}

func TestPublicRoutesNeedNoSession(t *testing.T) {
	router := newTestRouter(&fakeCourses{})

	rec, body := do(t, router, http.MethodGet, "/admin/ping", "", "")
	if rec.Code != http.StatusOK || body["msg"] != "admin service is running" {
		t.Fatalf("unexpected ping response %d %v", rec.Code, body)
	}

	rec, body = do(t, router, http.MethodGet, "/maestro/session", "", "")
	if rec.Code != http.StatusUnauthorized || body["authenticated"] != false {
		t.Fatalf("unexpected session response %d %v", rec.Code, body)
	}

	rec, body = do(t, router, http.MethodGet, "/maestro/session", adminToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for role mismatch, got %d %v", rec.Code, body)
	}
}

func TestListCoursesEmptyIsArray(t *testing.T) {
	router := newTestRouter(&fakeCourses{})

	rec, body := do(t, router, http.MethodGet, "/admin/cursos", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 0 {
		t.Fatalf("expected empty array, got %#v", body["data"])
	}
	if body["total"] != float64(0) {
		t.Fatalf("expected total 0, got %v", body["total"])
	}
}

func TestCreateCourseConflict(t *testing.T) {
	conflict := service.Conflict("a course with the same data already exists").
		WithDetails([]service.CourseConflict{{Field: "codigo", Value: "MAT-101"}})
	router := newTestRouter(&fakeCourses{createErr: conflict})

	payload := `{"id_curso":"MAT101","nombre":"Calculo","codigo":"MAT-101","descripcion":"Calculo diferencial"}`
	rec, body := do(t, router, http.MethodPost, "/admin/cursos", adminToken, payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%v)", rec.Code, body)
	}
	details, ok := body["details"].([]any)
	if !ok || len(details) != 1 {
		t.Fatalf("expected one conflict detail, got %#v", body["details"])
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		prefix string
	}{
		{"validation", service.Validation("nombre", "field nombre is required"), http.StatusBadRequest, "field nombre"},
		{"not found", service.NotFound("course X not found"), http.StatusNotFound, "course X"},
		{"forbidden", service.Forbidden("closed"), http.StatusForbidden, "closed"},
		{"infra", service.Infra(errors.New("connection refused"), "failed to create course"), http.StatusServiceUnavailable, "internal server error: "},
		{"partial", service.PartialFailure(errors.New("delete failed"), "orphaned object"), http.StatusInternalServerError, "internal server error: "},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal server error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeCourses{createErr: tt.err})
			rec, body := do(t, router, http.MethodPost, "/admin/cursos", adminToken, `{"id_curso":"MAT101","nombre":"Calculo"}`)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			msg, _ := body["error"].(string)
			if !strings.HasPrefix(msg, tt.prefix) {
				t.Fatalf("expected error starting with %q, got %q", tt.prefix, msg)
			}
		})
	}
}

func TestDecodeBodyRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(&fakeCourses{})

	rec, body := do(t, router, http.MethodPost, "/admin/cursos", adminToken, `{"id_curso":"MAT101","extra":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", rec.Code, body)
	}
}

func TestUploadGradesRequiresList(t *testing.T) {
	router := newTestRouter(&fakeCourses{})

	for _, payload := range []string{`{"id_alumno":"A1","calificacion":90}`, `not json`} {
		rec, body := do(t, router, http.MethodPost, "/maestro/grades/1/1", teacherToken, payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d (%v)", payload, rec.Code, body)
		}
	}
}

func TestInvalidPathParameter(t *testing.T) {
	router := newTestRouter(&fakeCourses{})

	rec, _ := do(t, router, http.MethodGet, "/maestro/grades/abc/1/check", teacherToken, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric assignment id, got %d", rec.Code)
	}
}
