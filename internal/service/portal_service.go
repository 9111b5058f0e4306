package service

import (
	"context"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

type Dashboard struct {
	Teacher      *models.Teacher           `json:"maestro"`
	Assignments  []models.Row              `json:"asignaciones"`
	Availability []models.AvailabilitySlot `json:"disponibilidad"`
	TotalAssign  int                       `json:"total_asignaciones"`
	TotalAvail   int                       `json:"total_disponibilidad"`
}

type GroupDetails struct {
	Assignment    models.Row            `json:"asignacion"`
	Students      []models.Student      `json:"estudiantes"`
	Schedule      []models.ScheduleSlot `json:"horarios"`
	TotalStudents int                   `json:"total_estudiantes"`
	TotalSchedule int                   `json:"total_horarios"`
}

// AssignmentInfo is the short header shown above student and schedule lists.
type AssignmentInfo struct {
	ID     int64 `json:"id_asignacion"`
	Course any   `json:"curso"`
	Group  any   `json:"grupo"`
}

type AssignmentStudents struct {
	Info     AssignmentInfo   `json:"asignacion_info"`
	Students []models.Student `json:"estudiantes"`
	Total    int              `json:"total_estudiantes"`
}

type AssignmentSchedule struct {
	Info     AssignmentInfo `json:"asignacion_info"`
	Schedule WeekSummary    `json:"horarios"`
	Total    int            `json:"total_horarios"`
}

// PortalService serves the read views of the teacher portal. Every view is
// scoped to the signed-in teacher.
type PortalService interface {
	Dashboard(ctx context.Context, teacherID string) (*Dashboard, error)
	Groups(ctx context.Context, teacherID string) ([]models.Row, error)
	GroupStudents(ctx context.Context, teacherID, groupID string) ([]models.Student, error)
	GroupDetails(ctx context.Context, teacherID, groupID string) (*GroupDetails, error)
	Assignments(ctx context.Context, teacherID string) ([]models.Row, error)
	AssignmentStudents(ctx context.Context, teacherID string, assignmentID int64) (*AssignmentStudents, error)
	AssignmentSchedule(ctx context.Context, teacherID string, assignmentID int64) (*AssignmentSchedule, error)
}

type portalService struct {
	teacherRepo      repository.TeacherRepository
	assignmentRepo   repository.AssignmentRepository
	studentRepo      repository.StudentRepository
	scheduleRepo     repository.ScheduleRepository
	availabilityRepo repository.AvailabilityRepository
	logger           zerolog.Logger
}

func NewPortalService(
	teacherRepo repository.TeacherRepository,
	assignmentRepo repository.AssignmentRepository,
	studentRepo repository.StudentRepository,
	scheduleRepo repository.ScheduleRepository,
	availabilityRepo repository.AvailabilityRepository,
	logger zerolog.Logger,
) PortalService {
	return &portalService{
		teacherRepo:      teacherRepo,
		assignmentRepo:   assignmentRepo,
		studentRepo:      studentRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
}

func (s *portalService) Dashboard(ctx context.Context, teacherID string) (*Dashboard, error) {
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
		return nil, Infra(err, "failed to get assignments")
	}

	rows, err := s.availabilityRepo.GetByTeacher(ctx, teacherID)
	availability, err := decodeList[models.AvailabilitySlot](rows, err, "availability")
	if err != nil {
		return nil, err
	}
	sortByWeek(availability)

	return &Dashboard{
		Teacher:      teacher,
		Assignments:  assignments,
		Availability: availability,
		TotalAssign:  len(assignments),
		TotalAvail:   len(availability),
	}, nil
}

func (s *portalService) Groups(ctx context.Context, teacherID string) ([]models.Row, error) {
	rows, err := s.assignmentRepo.GetGroupsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, Infra(err, "failed to get groups")
	}
	return rows, nil
}

// teachesGroup returns the teacher's assignments in the group, forbidden
// when there are none.
func (s *portalService) teachesGroup(ctx context.Context, teacherID, groupID string) ([]models.Row, error) {
	rows, err := s.assignmentRepo.GetByTeacherAndGroup(ctx, teacherID, groupID)
	if err != nil {
		return nil, Infra(err, "failed to check group assignment")
	}
	if len(rows) == 0 {
		return nil, Forbidden("group %s is not assigned to the teacher", groupID)
	}
	return rows, nil
}

func (s *portalService) GroupStudents(ctx context.Context, teacherID, groupID string) ([]models.Student, error) {
	if _, err := s.teachesGroup(ctx, teacherID, groupID); err != nil {
		return nil, err
	}
	rows, err := s.studentRepo.GetByGroup(ctx, groupID)
	return decodeList[models.Student](rows, err, "students")
}

func (s *portalService) GroupDetails(ctx context.Context, teacherID, groupID string) (*GroupDetails, error) {
	assignments, err := s.teachesGroup(ctx, teacherID, groupID)
	if err != nil {
		return nil, err
	}
	first := assignments[0]

	rows, err := s.studentRepo.GetByGroup(ctx, groupID)
	students, err := decodeList[models.Student](rows, err, "students")
	if err != nil {
		return nil, err
	}

	var schedule []models.ScheduleSlot
	if id, ok := first["id_asignacion"].(int64); ok {
		rows, err := s.scheduleRepo.GetByAssignment(ctx, id)
		if schedule, err = decodeList[models.ScheduleSlot](rows, err, "schedule"); err != nil {
			return nil, err
		}
	}

	return &GroupDetails{
		Assignment:    first,
		Students:      students,
		Schedule:      schedule,
		TotalStudents: len(students),
		TotalSchedule: len(schedule),
	}, nil
}

// Assignments lists the teacher's assignments, each with its weekly schedule.
func (s *portalService) Assignments(ctx context.Context, teacherID string) ([]models.Row, error) {
	rows, err := s.assignmentRepo.GetByTeacherDetailed(ctx, teacherID)
	if err != nil {
		return nil, Infra(err, "failed to get assignments")
	}
	for _, row := range rows {
		id, ok := row["id_asignacion"].(int64)
		if !ok {
			continue
		}
		raw, err := s.scheduleRepo.GetByAssignment(ctx, id)
		schedule, err := decodeList[models.ScheduleSlot](raw, err, "schedule")
		if err != nil {
			return nil, err
		}
		row["horarios"] = schedule
	}
	return rows, nil
}

func (s *portalService) ownedDetailed(ctx context.Context, teacherID string, assignmentID int64) (models.Row, error) {
	row, err := s.assignmentRepo.GetDetailed(ctx, assignmentID)
	if err != nil {
		return nil, Infra(err, "failed to get assignment")
	}
	if row == nil || row["id_maestro"] != teacherID {
		return nil, Forbidden("assignment not found or does not belong to the teacher")
	}
	return row, nil
}

func assignmentInfo(id int64, row models.Row) AssignmentInfo {
	return AssignmentInfo{
		ID:     id,
		Course: nested(row, "curso")["nombre"],
		Group:  nested(row, "grupo")["nombre_grupo"],
	}
}

func (s *portalService) AssignmentStudents(ctx context.Context, teacherID string, assignmentID int64) (*AssignmentStudents, error) {
	row, err := s.ownedDetailed(ctx, teacherID, assignmentID)
	if err != nil {
		return nil, err
	}
	groupID, _ := row["id_grupo"].(string)
	rows, err := s.studentRepo.GetByGroup(ctx, groupID)
	students, err := decodeList[models.Student](rows, err, "students")
	if err != nil {
		return nil, err
	}
	return &AssignmentStudents{
		Info:     assignmentInfo(assignmentID, row),
		Students: students,
		Total:    len(students),
	}, nil
}

func (s *portalService) AssignmentSchedule(ctx context.Context, teacherID string, assignmentID int64) (*AssignmentSchedule, error) {
	row, err := s.ownedDetailed(ctx, teacherID, assignmentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.scheduleRepo.GetByAssignment(ctx, assignmentID)
	slots, err := decodeList[models.ScheduleSlot](rows, err, "schedule")
	if err != nil {
		return nil, err
	}
	return &AssignmentSchedule{
		Info:     assignmentInfo(assignmentID, row),
		Schedule: summarizeSchedule(slots),
		Total:    len(slots),
	}, nil
}
