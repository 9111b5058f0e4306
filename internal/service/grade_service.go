package service

import (
	"context"
	"strings"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/Angel-crypt/backend-we/internal/service/integration"
	"github.com/rs/zerolog"
)

const (
	minScore = 0
	maxScore = 100
)

// UploadChecker is satisfied by GradeWindowValidator.
type UploadChecker interface {
	CanUploadGrades(ctx context.Context, assignmentID int64, partial int) models.UploadCheck
}

type AssignmentGrades struct {
	Assignment models.Row   `json:"asignacion_info"`
	Grades     []models.Row `json:"calificaciones"`
	Total      int          `json:"total_calificaciones"`
}

type TeacherGrades struct {
	Teacher     *models.Teacher    `json:"maestro_info"`
	Assignments []AssignmentGrades `json:"asignaciones_con_calificaciones"`
	Total       int                `json:"total_asignaciones"`
}

type GradeService interface {
	ByAssignment(ctx context.Context, assignmentID int64) (*AssignmentGrades, error)
	ByTeacher(ctx context.Context, teacherID string) (*TeacherGrades, error)

	ForPartial(ctx context.Context, teacherID string, assignmentID int64, partial int) ([]models.Row, error)
	Upload(ctx context.Context, teacherID string, assignmentID int64, partial int, entries []models.GradeEntry) (int64, error)
	Check(ctx context.Context, teacherID string, assignmentID int64, partial int) (models.UploadCheck, error)
	StudentPartial(ctx context.Context, teacherID string, assignmentID int64, studentID string, partial int) (*float64, error)
}

type gradeService struct {
	gradeRepo      repository.GradeRepository
	assignmentRepo repository.AssignmentRepository
	teacherRepo    repository.TeacherRepository
	studentRepo    repository.StudentRepository
	windows        UploadChecker
	publisher      integration.EventPublisher
	now            func() time.Time
	logger         zerolog.Logger
}

func NewGradeService(
	gradeRepo repository.GradeRepository,
	assignmentRepo repository.AssignmentRepository,
	teacherRepo repository.TeacherRepository,
	studentRepo repository.StudentRepository,
	windows UploadChecker,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) GradeService {
	return &gradeService{
		gradeRepo:      gradeRepo,
		assignmentRepo: assignmentRepo,
		teacherRepo:    teacherRepo,
		studentRepo:    studentRepo,
		windows:        windows,
		publisher:      publisher,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *gradeService) ByAssignment(ctx context.Context, assignmentID int64) (*AssignmentGrades, error) {
	info, err := s.assignmentRepo.GetDetailed(ctx, assignmentID)
	if err != nil {
		return nil, Infra(err, "failed to get assignment")
	}
	if info == nil {
		return nil, NotFound("assignment %d not found", assignmentID)
	}
	grades, err := s.gradeRepo.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, Infra(err, "failed to get grades")
	}
	return &AssignmentGrades{Assignment: info, Grades: grades, Total: len(grades)}, nil
}

func (s *gradeService) ByTeacher(ctx context.Context, teacherID string) (*TeacherGrades, error) {
	row, err := s.teacherRepo.GetByID(ctx, teacherID)
	teacher, err := decodeOne[models.Teacher](row, err, "teacher")
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, NotFound("teacher %s not found", teacherID)
	}

	assignments, err := s.assignmentRepo.GetByTeacherDetailed(ctx, teacherID)
	if err != nil {
		return nil, Infra(err, "failed to get teacher assignments")
	}

	result := &TeacherGrades{Teacher: teacher, Assignments: make([]AssignmentGrades, 0, len(assignments))}
	for _, a := range assignments {
		id, ok := a["id_asignacion"].(int64)
		if !ok {
			continue
		}
		grades, err := s.gradeRepo.GetByAssignment(ctx, id)
		if err != nil {
			return nil, Infra(err, "failed to get grades of assignment %d", id)
		}
		result.Assignments = append(result.Assignments, AssignmentGrades{Assignment: a, Grades: grades, Total: len(grades)})
	}
	result.Total = len(result.Assignments)
	return result, nil
}

// owned loads an assignment of the teacher; any other assignment is
// reported as forbidden whether or not it exists.
func (s *gradeService) owned(ctx context.Context, teacherID string, assignmentID int64) (*models.Assignment, error) {
	row, err := s.assignmentRepo.GetOwned(ctx, assignmentID, teacherID)
	assignment, err := decodeOne[models.Assignment](row, err, "assignment")
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, Forbidden("assignment not found or does not belong to the teacher")
	}
	return assignment, nil
}

func validatePartial(partial int) error {
	if !models.ValidPartial(partial) {
		return Validation("numero_parcial", "partial number must be between 1 and %d", models.PartialCount)
	}
	return nil
}

func (s *gradeService) ForPartial(ctx context.Context, teacherID string, assignmentID int64, partial int) ([]models.Row, error) {
	if err := validatePartial(partial); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, teacherID, assignmentID); err != nil {
		return nil, err
	}
	rows, err := s.gradeRepo.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, Infra(err, "failed to get grades")
	}
	return rows, nil
}

func (s *gradeService) Check(ctx context.Context, teacherID string, assignmentID int64, partial int) (models.UploadCheck, error) {
	if err := validatePartial(partial); err != nil {
		return models.UploadCheck{}, err
	}
	if _, err := s.owned(ctx, teacherID, assignmentID); err != nil {
		return models.UploadCheck{}, err
	}
	return s.windows.CanUploadGrades(ctx, assignmentID, partial), nil
}

// Upload writes one partial for many students. Ownership and the grading
// window are checked first; every entry must name a student of the
// assignment's group with a score in range. A repeated student keeps its
// last score.
func (s *gradeService) Upload(ctx context.Context, teacherID string, assignmentID int64, partial int, entries []models.GradeEntry) (int64, error) {
	if err := validatePartial(partial); err != nil {
		return 0, err
	}
	assignment, err := s.owned(ctx, teacherID, assignmentID)
	if err != nil {
		return 0, err
	}
	if check := s.windows.CanUploadGrades(ctx, assignmentID, partial); !check.Allowed {
		return 0, Forbidden("%s", check.Message)
	}
	if len(entries) == 0 {
		return 0, Validation("calificaciones", "a list of grades is required")
	}

	rows, err := s.studentRepo.GetByGroup(ctx, assignment.GroupID)
	students, err := decodeList[models.Student](rows, err, "students")
	if err != nil {
		return 0, err
	}
	enrolled := make(map[string]struct{}, len(students))
	for _, st := range students {
		enrolled[st.ID] = struct{}{}
	}

	index := make(map[string]int, len(entries))
	clean := make([]models.GradeEntry, 0, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.StudentID)
		if id == "" || e.Score == nil {
			return 0, Validation("calificaciones", "entry %d must have id_alumno and calificacion", i)
		}
		if *e.Score < minScore || *e.Score > maxScore {
			return 0, Validation("calificacion", "score for student %s must be between %d and %d", id, minScore, maxScore)
		}
		if _, ok := enrolled[id]; !ok {
			return 0, Validation("id_alumno", "student %s is not enrolled in group %s", id, assignment.GroupID)
		}
		entry := models.GradeEntry{StudentID: id, Score: e.Score}
		if j, seen := index[id]; seen {
			clean[j] = entry
			continue
		}
		index[id] = len(clean)
		clean = append(clean, entry)
	}

	n, err := s.gradeRepo.Upsert(ctx, assignmentID, partial, clean, s.now())
	if err != nil {
		if isForeignKey(err) {
			return 0, Validation("id_alumno", "one or more students do not exist")
		}
		return 0, Infra(err, "failed to save grades")
	}

	s.logger.Info().
		Str("teacher_id", teacherID).
		Int64("assignment_id", assignmentID).
		Int("partial", partial).
		Int64("rows", n).
		Msg("Grades uploaded")

	ids := make([]string, len(clean))
	for i, e := range clean {
		ids[i] = e.StudentID
	}
	event := models.GradesUploadedEvent{AssignmentID: assignmentID, Partial: partial, TeacherID: teacherID, StudentIDs: ids}
	if err := s.publisher.Publish(ctx, models.EventGradesUploaded, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish grades uploaded event")
	}

	return n, nil
}

func (s *gradeService) StudentPartial(ctx context.Context, teacherID string, assignmentID int64, studentID string, partial int) (*float64, error) {
	if err := validatePartial(partial); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, teacherID, assignmentID); err != nil {
		return nil, err
	}
	row, err := s.gradeRepo.Get(ctx, assignmentID, studentID)
	grade, err := decodeOne[models.Grade](row, err, "grade")
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, NotFound("no grades recorded for student %s in assignment %d", studentID, assignmentID)
	}
	return grade.Partial(partial), nil
}
