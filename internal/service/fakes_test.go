package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/Angel-crypt/backend-we/internal/session"
)

// Fakes embed the repository interface so that calling a method a test did
// not stub panics instead of silently succeeding.

type fakeWindowRepo struct {
	repository.PartialWindowRepository
	row       models.Row
	err       error
	createErr error
	created   []*models.PartialWindow
}

func (f *fakeWindowRepo) Find(context.Context, int64, int) (models.Row, error) {
	return f.row, f.err
}

func (f *fakeWindowRepo) Create(_ context.Context, w *models.PartialWindow) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, w)
	return int64(len(f.created)), nil
}

type fakeCourseRepo struct {
	repository.CourseRepository
	byID    map[string]models.Row
	byName  map[string]models.Row
	byCode  map[string]models.Row
	created []*models.Course
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (models.Row, error) {
	return f.byID[id], nil
}

func (f *fakeCourseRepo) GetByNameInsensitive(_ context.Context, name string) (models.Row, error) {
	return f.byName[name], nil
}

func (f *fakeCourseRepo) GetByCode(_ context.Context, code string) (models.Row, error) {
	return f.byCode[code], nil
}

func (f *fakeCourseRepo) Create(_ context.Context, c *models.Course) error {
	f.created = append(f.created, c)
	return nil
}

type fakeAssignmentRepo struct {
	repository.AssignmentRepository
	owned  map[int64]models.Row
	setErr error
	setURL *string
}

func (f *fakeAssignmentRepo) GetOwned(_ context.Context, id int64, teacherID string) (models.Row, error) {
	row, ok := f.owned[id]
	if !ok || row["id_maestro"] != teacherID {
		return nil, nil
	}
	return row, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id int64) (models.Row, error) {
	return f.owned[id], nil
}

func (f *fakeAssignmentRepo) SetLessonPlanURL(_ context.Context, _ int64, url *string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setURL = url
	return nil
}

type fakeStudentRepo struct {
	repository.StudentRepository
	byGroup map[string][]models.Row
}

func (f *fakeStudentRepo) GetByGroup(_ context.Context, groupID string) ([]models.Row, error) {
	return f.byGroup[groupID], nil
}

type fakeGradeRepo struct {
	repository.GradeRepository
	upserted []models.GradeEntry
	partial  int
}

func (f *fakeGradeRepo) Upsert(_ context.Context, _ int64, partial int, entries []models.GradeEntry, _ time.Time) (int64, error) {
	f.upserted = entries
	f.partial = partial
	return int64(len(entries)), nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[string]models.Row
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (models.Row, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

type fakeTeacherRepo struct {
	repository.TeacherRepository
	createErr error
	users     []*models.User
	teachers  []*models.Teacher
}

// Create stores both records or neither, like the transactional insert.
func (f *fakeTeacherRepo) Create(_ context.Context, user *models.User, teacher *models.Teacher) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.users = append(f.users, user)
	f.teachers = append(f.teachers, teacher)
	return nil
}

type fakeScheduleRepo struct {
	repository.ScheduleRepository
	byGroup map[string][]models.Row
	created []*models.ScheduleSlot
}

func (f *fakeScheduleRepo) GetByGroup(_ context.Context, groupID string) ([]models.Row, error) {
	return f.byGroup[groupID], nil
}

func (f *fakeScheduleRepo) Create(_ context.Context, slot *models.ScheduleSlot) (int64, error) {
	f.created = append(f.created, slot)
	return int64(100 + len(f.created)), nil
}

type fakeAvailabilityRepo struct {
	repository.AvailabilityRepository
	rows    []models.Row
	created []*models.AvailabilitySlot
	updated []*models.AvailabilitySlot
	days    []models.Weekday
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id int64) (models.Row, error) {
	for _, row := range f.rows {
		if row["id_disponibilidad"] == id {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) GetByTeacher(_ context.Context, teacherID string) ([]models.Row, error) {
	var out []models.Row
	for _, row := range f.rows {
		if row["id_maestro"] == teacherID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) GetByTeacherAndDay(_ context.Context, teacherID string, day models.Weekday) ([]models.Row, error) {
	f.days = append(f.days, day)
	var out []models.Row
	for _, row := range f.rows {
		if row["id_maestro"] == teacherID && row["dia_semana"] == string(day) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, slot *models.AvailabilitySlot) (int64, error) {
	f.created = append(f.created, slot)
	return int64(100 + len(f.created)), nil
}

func (f *fakeAvailabilityRepo) Update(_ context.Context, slot *models.AvailabilitySlot) error {
	f.updated = append(f.updated, slot)
	return nil
}

type fakeSessionStore struct {
	created []session.Session
}

func (f *fakeSessionStore) Create(_ context.Context, s session.Session) (string, error) {
	f.created = append(f.created, s)
	return "token-" + s.UserID, nil
}

func (f *fakeSessionStore) Get(context.Context, string) (*session.Session, error) {
	return nil, session.ErrNotFound
}

func (f *fakeSessionStore) Delete(context.Context, string) error { return nil }

type fakeStorage struct {
	uploads   map[string][]byte
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return f.PublicURL(key), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.uploads, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "http://storage.local/pdfs/" + key
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, _ any) error {
	f.events = append(f.events, eventType)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type staticWindow models.UploadCheck

func (w staticWindow) CanUploadGrades(context.Context, int64, int) models.UploadCheck {
	return models.UploadCheck(w)
}

var errStore = errors.New("connection refused")
