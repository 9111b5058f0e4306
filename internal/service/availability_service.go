package service

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

// SlotSummary carries either an availability or a schedule id.
type SlotSummary struct {
	AvailabilityID int64  `json:"id_disponibilidad,omitempty"`
	ScheduleID     int64  `json:"id_horario,omitempty"`
	Start          string `json:"hora_inicio"`
	End            string `json:"hora_fin"`
}

// WeekSummary groups slots by weekday and serializes the days in calendar
// order, every day present even when empty.
type WeekSummary map[models.Weekday][]SlotSummary

func (w WeekSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range models.Weekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.String())
		if err != nil {
			return nil, err
		}
		slots := w[day]
		if slots == nil {
			slots = []SlotSummary{}
		}
		val, err := json.Marshal(slots)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Total counts every slot across the week.
func (w WeekSummary) Total() int {
	n := 0
	for _, slots := range w {
		n += len(slots)
	}
	return n
}

func summarizeSchedule(slots []models.ScheduleSlot) WeekSummary {
	summary := WeekSummary{}
	for _, s := range slots {
		summary[s.Day] = append(summary[s.Day], SlotSummary{ScheduleID: s.ID, Start: s.Start.HHMM(), End: s.End.HHMM()})
	}
	return summary
}

func summarizeAvailability(slots []models.AvailabilitySlot) WeekSummary {
	summary := WeekSummary{}
	for _, s := range slots {
		summary[s.Day] = append(summary[s.Day], SlotSummary{AvailabilityID: s.ID, Start: s.Start.HHMM(), End: s.End.HHMM()})
	}
	return summary
}

type AvailabilityService interface {
	List(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error)
	Create(ctx context.Context, teacherID string, req *models.SlotRequest) (*models.AvailabilitySlot, error)
	Update(ctx context.Context, teacherID string, req *models.UpdateAvailabilityRequest) (*models.AvailabilitySlot, error)
	Delete(ctx context.Context, teacherID string, id int64) (*models.AvailabilitySlot, error)
	Summary(ctx context.Context, teacherID string) (WeekSummary, error)
	ForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error)
}

type availabilityService struct {
	availabilityRepo repository.AvailabilityRepository
	teacherRepo      repository.TeacherRepository
	logger           zerolog.Logger
}

func NewAvailabilityService(
	availabilityRepo repository.AvailabilityRepository,
	teacherRepo repository.TeacherRepository,
	logger zerolog.Logger,
) AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		teacherRepo:      teacherRepo,
		logger:           logger,
	}
}

func (s *availabilityService) List(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error) {
	rows, err := s.availabilityRepo.GetByTeacher(ctx, teacherID)
	slots, err := decodeList[models.AvailabilitySlot](rows, err, "availability")
	if err != nil {
		return nil, err
	}
	sortByWeek(slots)
	return slots, nil
}

// sortByWeek orders slots Monday first, then by start time.
func sortByWeek(slots []models.AvailabilitySlot) {
	slices.SortStableFunc(slots, func(a, b models.AvailabilitySlot) int {
		if d := a.Day.Index() - b.Day.Index(); d != 0 {
			return d
		}
		return a.Start.Compare(b.Start)
	})
}

// ForTeacher lists a teacher's availability after checking the teacher exists.
func (s *availabilityService) ForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error) {
	exists, err := s.teacherRepo.Exists(ctx, teacherID)
	if err != nil {
		return nil, Infra(err, "failed to check teacher existence")
	}
	if !exists {
		return nil, NotFound("teacher %s not found", teacherID)
	}
	return s.List(ctx, teacherID)
}

func (s *availabilityService) sameDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.AvailabilitySlot, error) {
	rows, err := s.availabilityRepo.GetByTeacherAndDay(ctx, teacherID, day)
	return decodeList[models.AvailabilitySlot](rows, err, "availability")
}

func conflictError(slot *models.AvailabilitySlot) *Error {
	return Conflict("schedule conflict with existing availability: %s - %s",
		slot.Start.HHMM(), slot.End.HHMM()).WithDetails(slot)
}

func (s *availabilityService) Create(ctx context.Context, teacherID string, req *models.SlotRequest) (*models.AvailabilitySlot, error) {
	day, start, end, err := parseSlot(req.Day, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	existing, err := s.sameDay(ctx, teacherID, day)
	if err != nil {
		return nil, err
	}
	if conflict := FindConflict(teacherID, day, start, end, existing); conflict != nil {
		return nil, conflictError(conflict)
	}

	slot := &models.AvailabilitySlot{TeacherID: teacherID, Day: day, Start: start, End: end}
	id, err := s.availabilityRepo.Create(ctx, slot)
	if err != nil {
		return nil, Infra(err, "failed to create availability")
	}
	slot.ID = id

	s.logger.Info().
		Str("teacher_id", teacherID).
		Int64("availability_id", id).
		Str("day", day.String()).
		Msg("Availability created")

	return slot, nil
}

func (s *availabilityService) owned(ctx context.Context, teacherID string, id int64) (*models.AvailabilitySlot, error) {
	row, err := s.availabilityRepo.GetByID(ctx, id)
	slot, err := decodeOne[models.AvailabilitySlot](row, err, "availability")
	if err != nil {
		return nil, err
	}
	if slot == nil || slot.TeacherID != teacherID {
		return nil, NotFound("availability %d not found or does not belong to the teacher", id)
	}
	return slot, nil
}

// Update runs the overlap check against the other slots of the target day.
func (s *availabilityService) Update(ctx context.Context, teacherID string, req *models.UpdateAvailabilityRequest) (*models.AvailabilitySlot, error) {
	day, start, end, err := parseSlot(req.Day, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	slot, err := s.owned(ctx, teacherID, req.ID)
	if err != nil {
		return nil, err
	}

	existing, err := s.sameDay(ctx, teacherID, day)
	if err != nil {
		return nil, err
	}
	if conflict := FindConflict(teacherID, day, start, end, excludeSlot(existing, slot.ID)); conflict != nil {
		return nil, conflictError(conflict)
	}

	slot.Day, slot.Start, slot.End = day, start, end
	if err := s.availabilityRepo.Update(ctx, slot); err != nil {
		return nil, Infra(err, "failed to update availability")
	}

	s.logger.Info().
		Str("teacher_id", teacherID).
		Int64("availability_id", slot.ID).
		Msg("Availability updated")

	return slot, nil
}

func (s *availabilityService) Delete(ctx context.Context, teacherID string, id int64) (*models.AvailabilitySlot, error) {
	slot, err := s.owned(ctx, teacherID, id)
	if err != nil {
		return nil, err
	}
	if err := s.availabilityRepo.Delete(ctx, id); err != nil {
		return nil, Infra(err, "failed to delete availability")
	}
	s.logger.Info().Str("teacher_id", teacherID).Int64("availability_id", id).Msg("Availability deleted")
	return slot, nil
}

func (s *availabilityService) Summary(ctx context.Context, teacherID string) (WeekSummary, error) {
	slots, err := s.List(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return summarizeAvailability(slots), nil
}
