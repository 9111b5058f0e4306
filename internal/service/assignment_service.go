package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/Angel-crypt/backend-we/internal/service/integration"
	"github.com/rs/zerolog"
)

// LessonPlanView is the admin view of an assignment's uploaded plan.
type LessonPlanView struct {
	AssignmentID int64                  `json:"id_asignacion"`
	URL          string                 `json:"planeacion_pdf_url"`
	Course       models.Row             `json:"curso"`
	Group        models.Row             `json:"grupo"`
	Teacher      models.Row             `json:"maestro"`
	Metadata     models.Row             `json:"metadata,omitempty"`
	URLStatus    *integration.URLStatus `json:"url_validation,omitempty"`
}

type LessonPlanOptions struct {
	ValidateURL     bool
	IncludeMetadata bool
}

type AssignmentService interface {
	List(ctx context.Context) ([]models.Row, error)
	Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	LessonPlan(ctx context.Context, id int64, opts LessonPlanOptions) (*LessonPlanView, error)

	ListWindows(ctx context.Context) ([]models.PartialWindow, error)
	CreateWindow(ctx context.Context, assignmentID int64, req *models.CreatePartialWindowRequest) (*models.PartialWindow, error)

	ListSchedule(ctx context.Context, assignmentID int64) ([]models.ScheduleSlot, error)
	CreateSchedule(ctx context.Context, assignmentID int64, req *models.SlotRequest) (*models.ScheduleSlot, error)
	DeleteSchedule(ctx context.Context, id int64) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	groupRepo      repository.GroupRepository
	teacherRepo    repository.TeacherRepository
	windowRepo     repository.PartialWindowRepository
	scheduleRepo   repository.ScheduleRepository
	urlChecker     integration.URLChecker
	publisher      integration.EventPublisher
	loc            *time.Location
	now            func() time.Time
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	groupRepo repository.GroupRepository,
	teacherRepo repository.TeacherRepository,
	windowRepo repository.PartialWindowRepository,
	scheduleRepo repository.ScheduleRepository,
	urlChecker integration.URLChecker,
	publisher integration.EventPublisher,
	loc *time.Location,
	logger zerolog.Logger,
) AssignmentService {
	if loc == nil {
		loc = time.Local
	}
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		groupRepo:      groupRepo,
		teacherRepo:    teacherRepo,
		windowRepo:     windowRepo,
		scheduleRepo:   scheduleRepo,
		urlChecker:     urlChecker,
		publisher:      publisher,
		loc:            loc,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *assignmentService) List(ctx context.Context) ([]models.Row, error) {
	rows, err := s.assignmentRepo.GetAllDetailed(ctx)
	if err != nil {
		return nil, Infra(err, "failed to get assignments")
	}
	return rows, nil
}

func (s *assignmentService) Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	assignment := &models.Assignment{
		CourseID:  strings.ToUpper(strings.TrimSpace(req.CourseID)),
		GroupID:   strings.ToUpper(strings.TrimSpace(req.GroupID)),
		TeacherID: strings.TrimSpace(req.TeacherID),
	}

	course, err := s.courseRepo.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, Infra(err, "failed to check course")
	}
	if course == nil {
		return nil, NotFound("course %s not found", assignment.CourseID)
	}

	exists, err := s.groupRepo.Exists(ctx, assignment.GroupID)
	if err != nil {
		return nil, Infra(err, "failed to check group existence")
	}
	if !exists {
		return nil, NotFound("group %s not found", assignment.GroupID)
	}

	exists, err = s.teacherRepo.Exists(ctx, assignment.TeacherID)
	if err != nil {
		return nil, Infra(err, "failed to check teacher existence")
	}
	if !exists {
		return nil, NotFound("teacher %s not found", assignment.TeacherID)
	}

	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if isForeignKey(err) {
			return nil, NotFound("course, group or teacher no longer exists")
		}
		return nil, Infra(err, "failed to create assignment")
	}
	assignment.ID = id

	s.logger.Info().
		Int64("assignment_id", id).
		Str("course_id", assignment.CourseID).
		Str("group_id", assignment.GroupID).
		Str("teacher_id", assignment.TeacherID).
		Msg("Assignment created")

	return assignment, nil
}

func (s *assignmentService) requireAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	if id <= 0 {
		return nil, Validation("id_asignacion", "assignment id must be a positive integer")
	}
	row, err := s.assignmentRepo.GetByID(ctx, id)
	assignment, err := decodeOne[models.Assignment](row, err, "assignment")
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, NotFound("assignment %d not found", id)
	}
	return assignment, nil
}

// LessonPlan returns the stored plan URL with course, group and teacher
// context. With ValidateURL the URL is probed and an unreachable host is an
// infrastructure failure.
func (s *assignmentService) LessonPlan(ctx context.Context, id int64, opts LessonPlanOptions) (*LessonPlanView, error) {
	if id <= 0 {
		return nil, Validation("id_asignacion", "assignment id must be a positive integer")
	}
	row, err := s.assignmentRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, Infra(err, "failed to get assignment")
	}
	if row == nil {
		return nil, NotFound("assignment %d not found", id)
	}

	rawURL, _ := row["planeacion_pdf_url"].(string)
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, NotFound("no lesson plan PDF for assignment %d", id)
	}
	if err := integration.ValidateURL(rawURL); err != nil {
		return nil, Validation("planeacion_pdf_url", "invalid lesson plan URL: %v", err)
	}

	course := nested(row, "curso")
	group := nested(row, "grupo")
	teacher := nested(row, "maestro")
	maternal, _ := teacher["apellido_materno"].(string)
	name, _ := teacher["nombre"].(string)
	paternal, _ := teacher["apellido_paterno"].(string)

	view := &LessonPlanView{
		AssignmentID: id,
		URL:          rawURL,
		Course: models.Row{
			"id_curso": course["id_curso"],
			"nombre":   course["nombre"],
			"codigo":   course["codigo"],
		},
		Group: models.Row{
			"id_grupo":     group["id_grupo"],
			"nombre_grupo": group["nombre_grupo"],
			"generacion":   group["generacion"],
			"facultad":     group["facultad"],
		},
		Teacher: models.Row{
			"id_usuario":      teacher["id_usuario"],
			"nombre_completo": models.FullName(name, paternal, &maternal),
			"especialidad":    teacher["especialidad"],
		},
	}

	if opts.IncludeMetadata {
		parsed, _ := url.Parse(rawURL)
		view.Metadata = models.Row{
			"curso_descripcion": course["descripcion"],
			"url_dominio":       parsed.Host,
			"url_esquema":       parsed.Scheme,
			"maestro_nombres_separados": models.Row{
				"nombre":           teacher["nombre"],
				"apellido_paterno": teacher["apellido_paterno"],
				"apellido_materno": teacher["apellido_materno"],
			},
			"consulta_timestamp": s.now().Format(time.RFC3339),
		}
	}

	if opts.ValidateURL {
		status, err := s.urlChecker.Check(ctx, rawURL)
		if err != nil {
			return nil, Infra(err, "lesson plan URL is not reachable").
				WithDetails(models.Row{"id_asignacion": id, "planeacion_pdf_url": rawURL})
		}
		view.URLStatus = status
	}

	return view, nil
}

// nested returns an embedded JSON object column as a Row.
func nested(row models.Row, key string) models.Row {
	switch v := row[key].(type) {
	case models.Row:
		return v
	case map[string]any:
		return models.Row(v)
	}
	return models.Row{}
}

func (s *assignmentService) ListWindows(ctx context.Context) ([]models.PartialWindow, error) {
	rows, err := s.windowRepo.GetAll(ctx)
	return decodeList[models.PartialWindow](rows, err, "partial windows")
}

// parseWindowTime accepts ISO-8601 with or without offset; zoned values are
// converted to the grading zone and stored as wall clock.
func (s *assignmentService) parseWindowTime(field, value string) (models.DateTime, error) {
	dt, err := models.ParseDateTime(strings.TrimSpace(value))
	if err != nil {
		return models.DateTime{}, Validation(field, "invalid date format for %s, use ISO 8601", field)
	}
	if dt.Zoned() {
		instant := dt.In(s.loc)
		wall := instant.In(s.loc)
		return models.NaiveDateTime(wall), nil
	}
	return dt, nil
}

func (s *assignmentService) CreateWindow(ctx context.Context, assignmentID int64, req *models.CreatePartialWindowRequest) (*models.PartialWindow, error) {
	if !models.ValidPartial(req.Partial) {
		return nil, Validation("numero_parcial", "partial number must be 1, 2 or 3")
	}
	opens, err := s.parseWindowTime("fecha_inicio", req.Opens)
	if err != nil {
		return nil, err
	}
	closes, err := s.parseWindowTime("fecha_fin", req.Closes)
	if err != nil {
		return nil, err
	}
	if !closes.In(s.loc).After(opens.In(s.loc)) {
		return nil, Validation("fecha_fin", "end date must be after start date")
	}

	if _, err := s.requireAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}

	existing, err := s.windowRepo.Find(ctx, assignmentID, req.Partial)
	if err != nil {
		return nil, Infra(err, "failed to check existing window")
	}
	if existing != nil {
		return nil, Conflict("a window for partial %d of assignment %d already exists", req.Partial, assignmentID)
	}

	window := &models.PartialWindow{
		AssignmentID: assignmentID,
		Partial:      req.Partial,
		Opens:        opens,
		Closes:       closes,
		Active:       true,
	}
	if req.Active != nil {
		window.Active = *req.Active
	}

	id, err := s.windowRepo.Create(ctx, window)
	if err != nil {
		if isDuplicate(err) {
			return nil, Conflict("a window for partial %d of assignment %d already exists", req.Partial, assignmentID)
		}
		return nil, Infra(err, "failed to create partial window")
	}
	window.ID = id

	s.logger.Info().
		Int64("assignment_id", assignmentID).
		Int("partial", req.Partial).
		Str("opens", opens.String()).
		Str("closes", closes.String()).
		Msg("Partial window created")

	event := models.PartialWindowCreatedEvent{
		AssignmentID: assignmentID,
		Partial:      req.Partial,
		Opens:        opens.String(),
		Closes:       closes.String(),
	}
	if err := s.publisher.Publish(ctx, models.EventPartialWindowOpened, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish partial window event")
	}

	return window, nil
}

func (s *assignmentService) ListSchedule(ctx context.Context, assignmentID int64) ([]models.ScheduleSlot, error) {
	if _, err := s.requireAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	rows, err := s.scheduleRepo.GetByAssignment(ctx, assignmentID)
	return decodeList[models.ScheduleSlot](rows, err, "schedule")
}

// CreateSchedule rejects a slot that overlaps another class of the same group.
func (s *assignmentService) CreateSchedule(ctx context.Context, assignmentID int64, req *models.SlotRequest) (*models.ScheduleSlot, error) {
	day, start, end, err := parseSlot(req.Day, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	assignment, err := s.requireAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.scheduleRepo.GetByGroup(ctx, assignment.GroupID)
	groupSlots, err := decodeList[models.ScheduleSlot](rows, err, "group schedule")
	if err != nil {
		return nil, err
	}
	for _, other := range groupSlots {
		if other.Day == day && overlaps(start, end, other.Start, other.End) {
			return nil, Conflict("schedule conflicts with an existing class of group %s: %s %s-%s",
				assignment.GroupID, other.Day, other.Start.HHMM(), other.End.HHMM()).WithDetails(other)
		}
	}

	slot := &models.ScheduleSlot{
		AssignmentID: assignmentID,
		Day:          day,
		Start:        start,
		End:          end,
	}
	id, err := s.scheduleRepo.Create(ctx, slot)
	if err != nil {
		return nil, Infra(err, "failed to create schedule")
	}
	slot.ID = id

	s.logger.Info().
		Int64("assignment_id", assignmentID).
		Int64("schedule_id", id).
		Str("day", day.String()).
		Msg("Schedule created")

	return slot, nil
}

func (s *assignmentService) DeleteSchedule(ctx context.Context, id int64) error {
	row, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return Infra(err, "failed to get schedule")
	}
	if row == nil {
		return NotFound("schedule %d not found", id)
	}
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		return Infra(err, "failed to delete schedule")
	}
	s.logger.Info().Int64("schedule_id", id).Msg("Schedule deleted")
	return nil
}
