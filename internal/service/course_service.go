package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

var (
	courseIDPattern   = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)
)

// CourseConflict describes one uniqueness violation found before a write.
type CourseConflict struct {
	Field    string     `json:"campo"`
	Value    string     `json:"valor"`
	Message  string     `json:"mensaje"`
	Existing models.Row `json:"curso_existente"`
}

// CourseChange records a field modified by an update.
type CourseChange struct {
	Field    string `json:"campo"`
	Previous any    `json:"valor_anterior"`
	Current  any    `json:"valor_nuevo"`
}

type CourseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Lookup(ctx context.Context, identifier string) (*models.Course, error)
	Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, []CourseChange, error)
	Delete(ctx context.Context, id string) (*models.Course, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *courseService) List(ctx context.Context) ([]models.Course, error) {
	rows, err := s.courseRepo.GetAll(ctx)
	return decodeList[models.Course](rows, err, "courses")
}

// Lookup matches the identifier as a course id first, then as a substring
// of the name or code, returning the first hit.
func (s *courseService) Lookup(ctx context.Context, identifier string) (*models.Course, error) {
	clean := strings.ToUpper(strings.TrimSpace(identifier))
	if clean == "" {
		return nil, Validation("identificador", "identifier must not be empty")
	}

	row, err := s.courseRepo.GetByID(ctx, clean)
	course, err := decodeOne[models.Course](row, err, "course")
	if err != nil {
		return nil, err
	}
	if course != nil {
		return course, nil
	}

	rows, err := s.courseRepo.Search(ctx, clean)
	courses, err := decodeList[models.Course](rows, err, "courses")
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, NotFound("no course found with identifier %s", clean)
	}
	return &courses[0], nil
}

func validateCourseID(id string) error {
	if utf8.RuneCountInString(id) != 6 {
		return Validation("id_curso", "course id must be exactly 6 characters")
	}
	if !courseIDPattern.MatchString(id) {
		return Validation("id_curso", "course id may only contain letters and digits")
	}
	return nil
}

func validateCourseName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 {
		return Validation("nombre", "course name must be at least 3 characters")
	}
	if n > 100 {
		return Validation("nombre", "course name must not exceed 100 characters")
	}
	return nil
}

func validateCourseCode(code string) error {
	if utf8.RuneCountInString(code) > 20 {
		return Validation("codigo", "course code must not exceed 20 characters")
	}
	if !courseCodePattern.MatchString(code) {
		return Validation("codigo", "course code may only contain letters, digits, hyphens and underscores")
	}
	return nil
}

func validateCourseDescription(desc string, min int) error {
	n := utf8.RuneCountInString(desc)
	if n < min {
		if min <= 1 {
			return Validation("descripcion", "description must not be empty")
		}
		return Validation("descripcion", "description must be at least %d characters", min)
	}
	if n > 500 {
		return Validation("descripcion", "description must not exceed 500 characters")
	}
	return nil
}

func courseSummary(row models.Row) models.Row {
	return models.Row{"id_curso": row["id_curso"], "nombre": row["nombre"]}
}

// Create validates the payload and rejects any id, name or code already in
// use before the insert is attempted.
func (s *courseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	id := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	desc := strings.TrimSpace(req.Description)

	var missing []string
	if id == "" {
		missing = append(missing, "id_curso")
	}
	if name == "" {
		missing = append(missing, "nombre")
	}
	if desc == "" {
		missing = append(missing, "descripcion")
	}
	if len(missing) > 0 {
		return nil, Validation(missing[0], "missing or empty required fields: %s", strings.Join(missing, ", "))
	}

	if err := validateCourseID(id); err != nil {
		return nil, err
	}
	if err := validateCourseName(name); err != nil {
		return nil, err
	}
	code := trimmedPtr(req.Code)
	if code != nil {
		if err := validateCourseCode(*code); err != nil {
			return nil, err
		}
		upper := strings.ToUpper(*code)
		code = &upper
	}
	if err := validateCourseDescription(desc, 10); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:          strings.ToUpper(id),
		Name:        name,
		Code:        code,
		Description: &desc,
	}

	conflicts, err := s.uniquenessConflicts(ctx, course)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, Conflict("cannot create course due to uniqueness conflicts").WithDetails(conflicts)
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if isDuplicate(err) {
			return nil, Conflict("course id, name or code already in use")
		}
		return nil, Infra(err, "failed to create course")
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("name", course.Name).
		Msg("Course created")

	return course, nil
}

func (s *courseService) uniquenessConflicts(ctx context.Context, course *models.Course) ([]CourseConflict, error) {
	var conflicts []CourseConflict

	byID, err := s.courseRepo.GetByID(ctx, course.ID)
	if err != nil {
		return nil, Infra(err, "failed to check course id")
	}
	if byID != nil {
		conflicts = append(conflicts, CourseConflict{
			Field:    "id_curso",
			Value:    course.ID,
			Message:  "course id " + course.ID + " already exists",
			Existing: courseSummary(byID),
		})
	}

	byName, err := s.courseRepo.GetByNameInsensitive(ctx, course.Name)
	if err != nil {
		return nil, Infra(err, "failed to check course name")
	}
	if byName != nil {
		conflicts = append(conflicts, CourseConflict{
			Field:    "nombre",
			Value:    course.Name,
			Message:  "a course named " + course.Name + " already exists",
			Existing: courseSummary(byName),
		})
	}

	if course.Code != nil {
		byCode, err := s.courseRepo.GetByCode(ctx, *course.Code)
		if err != nil {
			return nil, Infra(err, "failed to check course code")
		}
		if byCode != nil {
			conflicts = append(conflicts, CourseConflict{
				Field:    "codigo",
				Value:    *course.Code,
				Message:  "course code " + *course.Code + " is already in use",
				Existing: courseSummary(byCode),
			})
		}
	}

	return conflicts, nil
}

func (s *courseService) get(ctx context.Context, id string) (*models.Course, error) {
	if err := validateCourseID(id); err != nil {
		return nil, err
	}
	row, err := s.courseRepo.GetByID(ctx, strings.ToUpper(id))
	course, err := decodeOne[models.Course](row, err, "course")
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, NotFound("course %s not found", id)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, []CourseChange, error) {
	if req.Name == nil && req.Code == nil && req.Description == nil {
		return nil, nil, Validation("", "at least one of nombre, codigo, descripcion must be provided")
	}

	var name, desc string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, nil, Validation("nombre", "course name must not be empty")
		}
		if err := validateCourseName(name); err != nil {
			return nil, nil, err
		}
	}
	if req.Description != nil {
		desc = strings.TrimSpace(*req.Description)
		if err := validateCourseDescription(desc, 1); err != nil {
			return nil, nil, err
		}
	}
	var code *string
	if req.Code != nil {
		code = trimmedPtr(req.Code)
		if code != nil {
			if err := validateCourseCode(*code); err != nil {
				return nil, nil, err
			}
			upper := strings.ToUpper(*code)
			code = &upper
		}
	}

	course, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	before := *course

	if req.Code != nil && code != nil && (course.Code == nil || *code != *course.Code) {
		existing, err := s.courseRepo.GetByCode(ctx, *code)
		if err != nil {
			return nil, nil, Infra(err, "failed to check course code")
		}
		if existing != nil && existing["id_curso"] != course.ID {
			return nil, nil, Conflict("course code %s already exists", *code).WithDetails(courseSummary(existing))
		}
	}
	if req.Name != nil && !strings.EqualFold(name, course.Name) {
		existing, err := s.courseRepo.GetByNameInsensitive(ctx, name)
		if err != nil {
			return nil, nil, Infra(err, "failed to check course name")
		}
		if existing != nil && existing["id_curso"] != course.ID {
			return nil, nil, Conflict("a course named %s already exists", name).WithDetails(courseSummary(existing))
		}
	}

	if req.Name != nil {
		course.Name = name
	}
	if req.Code != nil {
		course.Code = code
	}
	if req.Description != nil {
		course.Description = &desc
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if isDuplicate(err) {
			return nil, nil, Conflict("course name or code already in use")
		}
		return nil, nil, Infra(err, "failed to update course")
	}

	changes := diffCourse(before, *course)
	s.logger.Info().
		Str("course_id", course.ID).
		Int("changes", len(changes)).
		Msg("Course updated")

	return course, changes, nil
}

func diffCourse(before, after models.Course) []CourseChange {
	prev, curr := before.ToRow(), after.ToRow()
	changes := make([]CourseChange, 0, 3)
	for _, field := range []string{"nombre", "codigo", "descripcion"} {
		if prev[field] != curr[field] {
			changes = append(changes, CourseChange{Field: field, Previous: prev[field], Current: curr[field]})
		}
	}
	return changes
}

// Delete refuses while assignments, grades or schedules reference the course.
func (s *courseService) Delete(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	rel, err := s.courseRepo.Relations(ctx, course.ID)
	if err != nil {
		return nil, Infra(err, "failed to check course relations")
	}
	if rel.Any() {
		return nil, Conflict("cannot delete course %s, it has active relations", course.ID).WithDetails(rel)
	}

	if err := s.courseRepo.Delete(ctx, course.ID); err != nil {
		if isForeignKey(err) {
			return nil, Conflict("cannot delete course %s, it is still referenced", course.ID)
		}
		return nil, Infra(err, "failed to delete course")
	}

	s.logger.Info().Str("course_id", course.ID).Msg("Course deleted")
	return course, nil
}
