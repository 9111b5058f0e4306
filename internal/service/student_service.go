package service

import (
	"context"
	"strings"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

type StudentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	SearchByName(ctx context.Context, query string) ([]models.Student, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Student, error)
	Create(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req *models.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	studentRepo repository.StudentRepository
	groupRepo   repository.GroupRepository
	logger      zerolog.Logger
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	groupRepo repository.GroupRepository,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
		logger:      logger,
	}
}

func (s *studentService) List(ctx context.Context) ([]models.Student, error) {
	rows, err := s.studentRepo.GetAll(ctx)
	return decodeList[models.Student](rows, err, "students")
}

func (s *studentService) Get(ctx context.Context, id string) (*models.Student, error) {
	row, err := s.studentRepo.GetByID(ctx, id)
	student, err := decodeOne[models.Student](row, err, "student")
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, NotFound("student %s not found", id)
	}
	return student, nil
}

func (s *studentService) SearchByName(ctx context.Context, query string) ([]models.Student, error) {
	return searchNamed[models.Student](ctx, query, s.studentRepo.SearchByName)
}

func (s *studentService) ListByGroup(ctx context.Context, groupID string) ([]models.Student, error) {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	rows, err := s.studentRepo.GetByGroup(ctx, groupID)
	return decodeList[models.Student](rows, err, "students")
}

func (s *studentService) requireGroup(ctx context.Context, groupID string) error {
	exists, err := s.groupRepo.Exists(ctx, groupID)
	if err != nil {
		return Infra(err, "failed to check group existence")
	}
	if !exists {
		return NotFound("group %s not found", groupID)
	}
	return nil
}

func (s *studentService) Create(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error) {
	birth, err := parseOptionalDate("fecha_nacimiento", req.BirthDate)
	if err != nil {
		return nil, err
	}
	sex, err := parseOptionalSex(req.Sex)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		ID:              strings.TrimSpace(req.ID),
		GroupID:         strings.TrimSpace(req.GroupID),
		Name:            strings.TrimSpace(req.Name),
		PaternalSurname: strings.TrimSpace(req.PaternalSurname),
		MaternalSurname: trimmedPtr(req.MaternalSurname),
		BirthDate:       birth,
		Sex:             sex,
	}

	exists, err := s.studentRepo.Exists(ctx, student.ID)
	if err != nil {
		return nil, Infra(err, "failed to check student existence")
	}
	if exists {
		return nil, Conflict("student %s already exists", student.ID)
	}
	if err := s.requireGroup(ctx, student.GroupID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if isDuplicate(err) {
			return nil, Conflict("student %s already exists", student.ID)
		}
		return nil, Infra(err, "failed to create student")
	}

	s.logger.Info().
		Str("student_id", student.ID).
		Str("group_id", student.GroupID).
		Msg("Student created")

	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *models.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GroupID != nil {
		groupID := strings.TrimSpace(*req.GroupID)
		if groupID != student.GroupID {
			if err := s.requireGroup(ctx, groupID); err != nil {
				return nil, err
			}
			student.GroupID = groupID
		}
	}
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.PaternalSurname != nil {
		student.PaternalSurname = strings.TrimSpace(*req.PaternalSurname)
	}
	if req.MaternalSurname != nil {
		student.MaternalSurname = trimmedPtr(req.MaternalSurname)
	}
	if req.BirthDate != nil {
		if student.BirthDate, err = parseOptionalDate("fecha_nacimiento", req.BirthDate); err != nil {
			return nil, err
		}
	}
	if req.Sex != nil {
		if student.Sex, err = parseOptionalSex(req.Sex); err != nil {
			return nil, err
		}
	}

	if student.Name == "" || student.PaternalSurname == "" {
		return nil, Validation("nombre", "nombre and apellido_paterno must not be empty")
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, Infra(err, "failed to update student")
	}

	s.logger.Info().Str("student_id", id).Msg("Student updated")
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	grades, err := s.studentRepo.CountGrades(ctx, id)
	if err != nil {
		return Infra(err, "failed to check student grades")
	}
	if grades > 0 {
		return Conflict("cannot delete student %s, it has %d grade records", id, grades).
			WithDetails(map[string]int{"calificaciones": grades})
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if isForeignKey(err) {
			return Conflict("cannot delete student %s, it is still referenced", id)
		}
		return Infra(err, "failed to delete student")
	}

	s.logger.Info().Str("student_id", id).Msg("Student deleted")
	return nil
}
