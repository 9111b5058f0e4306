package repository

import (
	"context"
	"database/sql"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

type ScheduleRepository interface {
	Create(ctx context.Context, slot *models.ScheduleSlot) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Row, error)
	GetByAssignment(ctx context.Context, assignmentID int64) ([]models.Row, error)
	GetByGroup(ctx context.Context, groupID string) ([]models.Row, error)
	Delete(ctx context.Context, id int64) error
}

type scheduleRepository struct {
	*PostgresRepository
}

func NewScheduleRepository(db *sql.DB, logger zerolog.Logger) ScheduleRepository {
	return &scheduleRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const scheduleColumns = `id_horario, id_asignacion, dia_semana, hora_inicio, hora_fin`

func (r *scheduleRepository) Create(ctx context.Context, slot *models.ScheduleSlot) (int64, error) {
	query := `
		INSERT INTO horario_asignacion (id_asignacion, dia_semana, hora_inicio, hora_fin)
		VALUES ($1, $2, $3, $4)
		RETURNING id_horario
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		slot.AssignmentID, slot.Day.String(), slot.Start.String(), slot.End.String(),
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+scheduleColumns+` FROM horario_asignacion WHERE id_horario = $1`, id)
}

func (r *scheduleRepository) GetByAssignment(ctx context.Context, assignmentID int64) ([]models.Row, error) {
	query := `SELECT ` + scheduleColumns + ` FROM horario_asignacion WHERE id_asignacion = $1 ORDER BY hora_inicio`
	return r.queryRows(ctx, query, assignmentID)
}

func (r *scheduleRepository) GetByGroup(ctx context.Context, groupID string) ([]models.Row, error) {
	query := `
		SELECT h.id_horario, h.id_asignacion, h.dia_semana, h.hora_inicio, h.hora_fin
		FROM horario_asignacion h
		JOIN asignacion a ON a.id_asignacion = h.id_asignacion
		WHERE a.id_grupo = $1
		ORDER BY h.hora_inicio
	`
	return r.queryRows(ctx, query, groupID)
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) error {
	_, err := exec(ctx, r.db, `DELETE FROM horario_asignacion WHERE id_horario = $1`, id)
	return err
}

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Row, error)
	GetByTeacher(ctx context.Context, teacherID string) ([]models.Row, error)
	GetByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.Row, error)
	Update(ctx context.Context, slot *models.AvailabilitySlot) error
	Delete(ctx context.Context, id int64) error
}

type availabilityRepository struct {
	*PostgresRepository
}

func NewAvailabilityRepository(db *sql.DB, logger zerolog.Logger) AvailabilityRepository {
	return &availabilityRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const availabilityColumns = `id_disponibilidad, id_maestro, dia_semana, hora_inicio, hora_fin`

func (r *availabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) (int64, error) {
	query := `
		INSERT INTO disponibilidad (id_maestro, dia_semana, hora_inicio, hora_fin)
		VALUES ($1, $2, $3, $4)
		RETURNING id_disponibilidad
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		slot.TeacherID, slot.Day.String(), slot.Start.String(), slot.End.String(),
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id int64) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+availabilityColumns+` FROM disponibilidad WHERE id_disponibilidad = $1`, id)
}

func (r *availabilityRepository) GetByTeacher(ctx context.Context, teacherID string) ([]models.Row, error) {
	query := `SELECT ` + availabilityColumns + ` FROM disponibilidad WHERE id_maestro = $1 ORDER BY hora_inicio`
	return r.queryRows(ctx, query, teacherID)
}

func (r *availabilityRepository) GetByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.Row, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM disponibilidad
		WHERE id_maestro = $1 AND dia_semana = $2
		ORDER BY hora_inicio
	`
	return r.queryRows(ctx, query, teacherID, day.String())
}

func (r *availabilityRepository) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	query := `
		UPDATE disponibilidad
		SET dia_semana = $1, hora_inicio = $2, hora_fin = $3
		WHERE id_disponibilidad = $4 AND id_maestro = $5
	`
	_, err := exec(ctx, r.db, query,
		slot.Day.String(), slot.Start.String(), slot.End.String(), slot.ID, slot.TeacherID,
	)
	return err
}

func (r *availabilityRepository) Delete(ctx context.Context, id int64) error {
	_, err := exec(ctx, r.db, `DELETE FROM disponibilidad WHERE id_disponibilidad = $1`, id)
	return err
}
