package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/Angel-crypt/backend-we/internal/service/integration"
	"github.com/Angel-crypt/backend-we/internal/storage"
	"github.com/Angel-crypt/backend-we/pkg/hash"
	"github.com/rs/zerolog"
)

const pdfContentType = "application/pdf"

var pdfMagic = []byte("%PDF-")

type LessonPlanConfig struct {
	MaxUploadSize int64
	Prefix        string
}

type LessonPlanService interface {
	Upload(ctx context.Context, teacherID string, assignmentID int64, fileName string, data []byte) (string, error)
	Get(ctx context.Context, teacherID string, assignmentID int64) (string, error)
	List(ctx context.Context) ([]models.Row, error)
	ByTeacher(ctx context.Context, teacherID string) ([]models.Row, error)
}

type lessonPlanService struct {
	assignmentRepo repository.AssignmentRepository
	teacherRepo    repository.TeacherRepository
	storage        storage.ObjectStorage
	publisher      integration.EventPublisher
	config         LessonPlanConfig
	hasher         *hash.Hasher
	logger         zerolog.Logger
}

func NewLessonPlanService(
	assignmentRepo repository.AssignmentRepository,
	teacherRepo repository.TeacherRepository,
	objectStorage storage.ObjectStorage,
	publisher integration.EventPublisher,
	config LessonPlanConfig,
	logger zerolog.Logger,
) LessonPlanService {
	if config.Prefix == "" {
		config.Prefix = "planeaciones"
	}
	return &lessonPlanService{
		assignmentRepo: assignmentRepo,
		teacherRepo:    teacherRepo,
		storage:        objectStorage,
		publisher:      publisher,
		config:         config,
		hasher:         hash.NewHasher(hash.SHA256),
		logger:         logger,
	}
}

// PlanKey is the object key of an assignment's plan; uploads overwrite it.
func PlanKey(prefix string, assignmentID int64) string {
	return path.Join(prefix, fmt.Sprintf("asignacion_%d.pdf", assignmentID))
}

func (s *lessonPlanService) owned(ctx context.Context, teacherID string, assignmentID int64) (*models.Assignment, error) {
	row, err := s.assignmentRepo.GetOwned(ctx, assignmentID, teacherID)
	assignment, err := decodeOne[models.Assignment](row, err, "assignment")
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, NotFound("assignment %d not found", assignmentID)
	}
	return assignment, nil
}

func validatePDF(fileName string, data []byte, maxSize int64) error {
	if len(data) == 0 {
		return Validation("file", "no file was sent")
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return Validation("file", "file size exceeds limit of %d bytes", maxSize)
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return Validation("file", "only PDF files are allowed")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return Validation("file", "file content is not a valid PDF")
	}
	return nil
}

// Upload stores the PDF and saves its public URL on the assignment. When the
// URL cannot be saved the object is removed again; if that also fails the
// error is a partial failure naming both causes.
func (s *lessonPlanService) Upload(ctx context.Context, teacherID string, assignmentID int64, fileName string, data []byte) (string, error) {
	if _, err := s.owned(ctx, teacherID, assignmentID); err != nil {
		return "", err
	}
	if err := validatePDF(fileName, data, s.config.MaxUploadSize); err != nil {
		return "", err
	}

	checksum, err := s.hasher.Calculate(data)
	if err != nil {
		return "", fmt.Errorf("failed to hash lesson plan: %w", err)
	}

	key := PlanKey(s.config.Prefix, assignmentID)
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), pdfContentType)
	if err != nil {
		return "", Infra(err, "failed to upload file")
	}

	if err := s.assignmentRepo.SetLessonPlanURL(ctx, assignmentID, &url); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error().
				Err(delErr).
				Str("key", key).
				Msg("Failed to remove orphaned lesson plan")
			return "", PartialFailure(err, "file uploaded but URL not saved, cleanup failed: %v", delErr).
				WithDetails(models.Row{"key": key})
		}
		return "", Infra(err, "failed to save lesson plan URL")
	}

	s.logger.Info().
		Str("teacher_id", teacherID).
		Int64("assignment_id", assignmentID).
		Str("key", key).
		Int("size", len(data)).
		Str("sha256", checksum).
		Msg("Lesson plan uploaded")

	event := models.LessonPlanUploadedEvent{
		AssignmentID: assignmentID,
		TeacherID:    teacherID,
		URL:          url,
		Size:         len(data),
		Checksum:     checksum,
	}
	if err := s.publisher.Publish(ctx, models.EventLessonPlanUploaded, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish lesson plan event")
	}

	return url, nil
}

func (s *lessonPlanService) Get(ctx context.Context, teacherID string, assignmentID int64) (string, error) {
	assignment, err := s.owned(ctx, teacherID, assignmentID)
	if err != nil {
		return "", err
	}
	if !assignment.HasLessonPlan() {
		return "", NotFound("no lesson plan registered for assignment %d", assignmentID)
	}
	return *assignment.LessonPlanURL, nil
}

func (s *lessonPlanService) List(ctx context.Context) ([]models.Row, error) {
	rows, err := s.assignmentRepo.GetLessonPlans(ctx, "")
	if err != nil {
		return nil, Infra(err, "failed to get lesson plans")
	}
	return rows, nil
}

func (s *lessonPlanService) ByTeacher(ctx context.Context, teacherID string) ([]models.Row, error) {
	exists, err := s.teacherRepo.Exists(ctx, teacherID)
	if err != nil {
		return nil, Infra(err, "failed to check teacher existence")
	}
	if !exists {
		return nil, NotFound("teacher %s not found", teacherID)
	}
	rows, err := s.assignmentRepo.GetLessonPlans(ctx, teacherID)
	if err != nil {
		return nil, Infra(err, "failed to get lesson plans")
	}
	return rows, nil
}
