package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

// TeacherRelations counts the rows that reference a teacher.
type TeacherRelations struct {
	Assignments  int `json:"asignaciones"`
	Availability int `json:"disponibilidad"`
}

func (r TeacherRelations) Any() bool {
	return r.Assignments > 0
}

type TeacherRepository interface {
	Create(ctx context.Context, user *models.User, teacher *models.Teacher) error
	GetByID(ctx context.Context, id string) (models.Row, error)
	GetAll(ctx context.Context) ([]models.Row, error)
	SearchByName(ctx context.Context, tokens []string) ([]models.Row, error)
	GetBySpecialty(ctx context.Context, specialty string) ([]models.Row, error)
	GetBornOnOrBefore(ctx context.Context, date models.Date) ([]models.Row, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
	Relations(ctx context.Context, id string) (TeacherRelations, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type teacherRepository struct {
	*PostgresRepository
}

func NewTeacherRepository(db *sql.DB, logger zerolog.Logger) TeacherRepository {
	return &teacherRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const teacherColumns = `id_usuario, nombre, apellido_paterno, apellido_materno, fecha_nacimiento, especialidad`

// Create inserts the user and its teacher profile in one transaction.
func (r *teacherRepository) Create(ctx context.Context, user *models.User, teacher *models.Teacher) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := exec(ctx, tx, `
			INSERT INTO usuario (id_usuario, contrasena, role)
			VALUES ($1, $2, $3)
		`, user.ID, user.PasswordHash, user.Role.String())
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		_, err = exec(ctx, tx, `
			INSERT INTO maestro (`+teacherColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			teacher.UserID,
			teacher.Name,
			teacher.PaternalSurname,
			optional(teacher.MaternalSurname),
			optionalText(teacher.BirthDate),
			optional(teacher.Specialty),
		)
		if err != nil {
			return fmt.Errorf("failed to insert teacher: %w", err)
		}
		return nil
	})
}

func (r *teacherRepository) GetByID(ctx context.Context, id string) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+teacherColumns+` FROM maestro WHERE id_usuario = $1`, id)
}

func (r *teacherRepository) GetAll(ctx context.Context) ([]models.Row, error) {
	return r.queryRows(ctx, `SELECT `+teacherColumns+` FROM maestro ORDER BY apellido_paterno, nombre`)
}

func (r *teacherRepository) SearchByName(ctx context.Context, tokens []string) ([]models.Row, error) {
	if len(tokens) == 0 {
		return []models.Row{}, nil
	}
	where, args := nameFilter(tokens, 1, "nombre", "apellido_paterno", "apellido_materno")
	return r.queryRows(ctx, `SELECT `+teacherColumns+` FROM maestro WHERE `+where, args...)
}

func (r *teacherRepository) GetBySpecialty(ctx context.Context, specialty string) ([]models.Row, error) {
	query := `SELECT ` + teacherColumns + ` FROM maestro WHERE especialidad ILIKE $1 ORDER BY apellido_paterno, nombre`
	return r.queryRows(ctx, query, escapeLike(specialty))
}

func (r *teacherRepository) GetBornOnOrBefore(ctx context.Context, date models.Date) ([]models.Row, error) {
	query := `SELECT ` + teacherColumns + ` FROM maestro WHERE fecha_nacimiento <= $1 ORDER BY fecha_nacimiento DESC`
	return r.queryRows(ctx, query, date.String())
}

func (r *teacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	query := `
		UPDATE maestro
		SET nombre = $1, apellido_paterno = $2, apellido_materno = $3,
			fecha_nacimiento = $4, especialidad = $5
		WHERE id_usuario = $6
	`
	_, err := exec(ctx, r.db, query,
		teacher.Name,
		teacher.PaternalSurname,
		optional(teacher.MaternalSurname),
		optionalText(teacher.BirthDate),
		optional(teacher.Specialty),
		teacher.UserID,
	)
	return err
}

// Delete removes the teacher profile and then its user in one transaction.
func (r *teacherRepository) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := exec(ctx, tx, `DELETE FROM disponibilidad WHERE id_maestro = $1`, id); err != nil {
			return fmt.Errorf("failed to delete availability: %w", err)
		}
		if _, err := exec(ctx, tx, `DELETE FROM maestro WHERE id_usuario = $1`, id); err != nil {
			return fmt.Errorf("failed to delete teacher: %w", err)
		}
		if _, err := exec(ctx, tx, `DELETE FROM usuario WHERE id_usuario = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (r *teacherRepository) Relations(ctx context.Context, id string) (TeacherRelations, error) {
	var rel TeacherRelations
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM asignacion WHERE id_maestro = $1),
			(SELECT COUNT(*) FROM disponibilidad WHERE id_maestro = $1)
	`, id).Scan(&rel.Assignments, &rel.Availability)
	return rel, err
}

func (r *teacherRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM maestro WHERE id_usuario = $1)`, id)
}
