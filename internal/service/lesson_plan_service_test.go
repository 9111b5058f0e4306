package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

var samplePDF = []byte("%PDF-1.4\n%fake\n")

func ownedAssignment() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{owned: map[int64]models.Row{
		3: {"id_asignacion": int64(3), "id_curso": "MAT101", "id_grupo": "G1", "id_maestro": "MAE001"},
	}}
}

func TestPlanKey(t *testing.T) {
	if got := PlanKey("planeaciones", 12); got != "planeaciones/asignacion_12.pdf" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestUploadLessonPlan(t *testing.T) {
	repo := ownedAssignment()
	store := &fakeStorage{}
	pub := &fakePublisher{}
	svc := NewLessonPlanService(repo, nil, store, pub, LessonPlanConfig{MaxUploadSize: 1 << 20}, zerolog.Nop())

	url, err := svc.Upload(context.Background(), "MAE001", 3, "plan.PDF", samplePDF)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://storage.local/pdfs/planeaciones/asignacion_3.pdf" {
		t.Fatalf("unexpected url %s", url)
	}
	if repo.setURL == nil || *repo.setURL != url {
		t.Fatalf("url not saved on assignment")
	}
	if len(pub.events) != 1 || pub.events[0] != models.EventLessonPlanUploaded {
		t.Fatalf("expected lesson plan event, got %v", pub.events)
	}
}

func TestUploadLessonPlanRejects(t *testing.T) {
	tests := []struct {
		name    string
		teacher string
		file    string
		data    []byte
		kind    Kind
	}{
		{"not owner", "MAE002", "plan.pdf", samplePDF, KindNotFound},
		{"empty", "MAE001", "plan.pdf", nil, KindValidation},
		{"wrong extension", "MAE001", "plan.docx", samplePDF, KindValidation},
		{"not a pdf", "MAE001", "plan.pdf", []byte("hello"), KindValidation},
		{"too large", "MAE001", "plan.pdf", append(append([]byte{}, samplePDF...), make([]byte, 64)...), KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStorage{}
			svc := NewLessonPlanService(ownedAssignment(), nil, store, &fakePublisher{}, LessonPlanConfig{MaxUploadSize: 64}, zerolog.Nop())
			_, err := svc.Upload(context.Background(), tt.teacher, 3, tt.file, tt.data)
			if !IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if len(store.uploads) != 0 {
				t.Fatalf("nothing may be stored on rejection")
			}
		})
	}
}

func TestUploadLessonPlanCleanup(t *testing.T) {
	saveErr := errors.New("update failed")

	repo := ownedAssignment()
	repo.setErr = saveErr
	store := &fakeStorage{}
	svc := NewLessonPlanService(repo, nil, store, &fakePublisher{}, LessonPlanConfig{}, zerolog.Nop())

	_, err := svc.Upload(context.Background(), "MAE001", 3, "plan.pdf", samplePDF)
	if !IsKind(err, KindInfra) || !errors.Is(err, saveErr) {
		t.Fatalf("expected infra error wrapping the save failure, got %v", err)
	}
	if len(store.deleted) != 1 || len(store.uploads) != 0 {
		t.Fatalf("orphaned object must be removed, deleted=%v", store.deleted)
	}

	repo = ownedAssignment()
	repo.setErr = saveErr
	store = &fakeStorage{deleteErr: errors.New("bucket unavailable")}
	svc = NewLessonPlanService(repo, nil, store, &fakePublisher{}, LessonPlanConfig{}, zerolog.Nop())

	_, err = svc.Upload(context.Background(), "MAE001", 3, "plan.pdf", samplePDF)
	if !IsKind(err, KindPartialFailure) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	details, ok := err.(*Error).Details.(models.Row)
	if !ok || details["key"] != "planeaciones/asignacion_3.pdf" {
		t.Fatalf("expected orphaned key in details, got %#v", err.(*Error).Details)
	}
}
