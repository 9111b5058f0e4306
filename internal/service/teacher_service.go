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

type TeacherService interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Get(ctx context.Context, id string) (*models.Teacher, error)
	SearchByName(ctx context.Context, query string) ([]models.Teacher, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]models.Teacher, error)
	ListByMinAge(ctx context.Context, age int) ([]models.Teacher, error)
	Create(ctx context.Context, req *models.CreateTeacherRequest) (*models.Teacher, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Teacher, error)
	Delete(ctx context.Context, id string) error
	Courses(ctx context.Context, id string) ([]models.Row, error)
}

type teacherService struct {
	teacherRepo    repository.TeacherRepository
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	publisher      integration.EventPublisher
	now            func() time.Time
	logger         zerolog.Logger
}

func NewTeacherService(
	teacherRepo repository.TeacherRepository,
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) TeacherService {
	return &teacherService{
		teacherRepo:    teacherRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		publisher:      publisher,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *teacherService) List(ctx context.Context) ([]models.Teacher, error) {
	rows, err := s.teacherRepo.GetAll(ctx)
	return decodeList[models.Teacher](rows, err, "teachers")
}

func (s *teacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	row, err := s.teacherRepo.GetByID(ctx, id)
	teacher, err := decodeOne[models.Teacher](row, err, "teacher")
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, NotFound("teacher %s not found", id)
	}
	return teacher, nil
}

func (s *teacherService) SearchByName(ctx context.Context, query string) ([]models.Teacher, error) {
	return searchNamed[models.Teacher](ctx, query, s.teacherRepo.SearchByName)
}

func (s *teacherService) ListBySpecialty(ctx context.Context, specialty string) ([]models.Teacher, error) {
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return nil, Validation("especialidad", "specialty must not be empty")
	}
	rows, err := s.teacherRepo.GetBySpecialty(ctx, specialty)
	return decodeList[models.Teacher](rows, err, "teachers")
}

// ListByMinAge returns teachers born on or before today minus age years.
func (s *teacherService) ListByMinAge(ctx context.Context, age int) ([]models.Teacher, error) {
	if age < 0 || age > 150 {
		return nil, Validation("edad", "age must be between 0 and 150")
	}
	cutoff := models.DateOf(s.now().AddDate(-age, 0, 0))
	rows, err := s.teacherRepo.GetBornOnOrBefore(ctx, cutoff)
	return decodeList[models.Teacher](rows, err, "teachers")
}

// Create stores the user account and the teacher profile atomically.
func (s *teacherService) Create(ctx context.Context, req *models.CreateTeacherRequest) (*models.Teacher, error) {
	role := models.RoleTeacher
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			return nil, Validation("role", "invalid role, must be one of: admin, maestro")
		}
		role = parsed
	}

	birth, err := parseOptionalDate("fecha_nacimiento", req.BirthDate)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, req.UserID)
	if err != nil {
		return nil, Infra(err, "failed to check user existence")
	}
	if exists {
		return nil, Conflict("user id %s already exists", req.UserID)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, Infra(err, "failed to hash password")
	}

	user := &models.User{ID: req.UserID, PasswordHash: hash, Role: role}
	teacher := &models.Teacher{
		UserID:          req.UserID,
		Name:            strings.TrimSpace(req.Name),
		PaternalSurname: strings.TrimSpace(req.PaternalSurname),
		MaternalSurname: trimmedPtr(req.MaternalSurname),
		BirthDate:       birth,
		Specialty:       trimmedPtr(req.Specialty),
	}

	if err := s.teacherRepo.Create(ctx, user, teacher); err != nil {
		if isDuplicate(err) {
			return nil, Conflict("user id %s already exists", req.UserID)
		}
		return nil, Infra(err, "failed to create teacher")
	}

	s.logger.Info().
		Str("teacher_id", teacher.UserID).
		Str("role", role.String()).
		Msg("Teacher created")

	event := models.TeacherCreatedEvent{TeacherID: teacher.UserID, FullName: teacher.FullName()}
	if err := s.publisher.Publish(ctx, models.EventTeacherCreated, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish teacher created event")
	}

	return teacher, nil
}

func (s *teacherService) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Teacher, error) {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		teacher.Name = strings.TrimSpace(*req.Name)
	}
	if req.PaternalSurname != nil {
		teacher.PaternalSurname = strings.TrimSpace(*req.PaternalSurname)
	}
	if req.MaternalSurname != nil {
		teacher.MaternalSurname = trimmedPtr(req.MaternalSurname)
	}
	if req.Specialty != nil {
		teacher.Specialty = trimmedPtr(req.Specialty)
	}
	if req.BirthDate != nil {
		if teacher.BirthDate, err = parseOptionalDate("fecha_nacimiento", req.BirthDate); err != nil {
			return nil, err
		}
	}

	if teacher.Name == "" || teacher.PaternalSurname == "" {
		return nil, Validation("nombre", "nombre and apellido_paterno must not be empty")
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, Infra(err, "failed to update profile")
	}

	s.logger.Info().Str("teacher_id", id).Msg("Teacher profile updated")
	return teacher, nil
}

// Delete refuses while assignments reference the teacher; availability is
// removed together with the profile and the user account.
func (s *teacherService) Delete(ctx context.Context, id string) error {
	if len(id) != 6 {
		return Validation("id_usuario", "invalid user id, must be exactly 6 characters")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	rel, err := s.teacherRepo.Relations(ctx, id)
	if err != nil {
		return Infra(err, "failed to check teacher relations")
	}
	if rel.Any() {
		return Conflict("cannot delete teacher %s, it has active relations", id).WithDetails(rel)
	}

	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		if isForeignKey(err) {
			return Conflict("cannot delete teacher %s due to referential integrity constraints", id)
		}
		return Infra(err, "failed to delete teacher")
	}

	s.logger.Info().Str("teacher_id", id).Msg("Teacher deleted")
	return nil
}

func (s *teacherService) Courses(ctx context.Context, id string) ([]models.Row, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.assignmentRepo.GetCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, Infra(err, "failed to get teacher courses")
	}
	return rows, nil
}
