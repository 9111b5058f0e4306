package repository

import (
	"context"
	"database/sql"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (models.Row, error)
	GetAll(ctx context.Context) ([]models.Row, error)
	GetByGroup(ctx context.Context, groupID string) ([]models.Row, error)
	SearchByName(ctx context.Context, tokens []string) ([]models.Row, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	CountGrades(ctx context.Context, id string) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db *sql.DB, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const studentColumns = `id_alumno, id_grupo, nombre, apellido_paterno, apellido_materno, fecha_nacimiento, sexo`

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO alumno (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := exec(ctx, r.db, query,
		student.ID,
		student.GroupID,
		student.Name,
		student.PaternalSurname,
		optional(student.MaternalSurname),
		optionalText(student.BirthDate),
		optionalText(student.Sex),
	)
	return err
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+studentColumns+` FROM alumno WHERE id_alumno = $1`, id)
}

func (r *studentRepository) GetAll(ctx context.Context) ([]models.Row, error) {
	return r.queryRows(ctx, `SELECT `+studentColumns+` FROM alumno ORDER BY apellido_paterno, nombre`)
}

func (r *studentRepository) GetByGroup(ctx context.Context, groupID string) ([]models.Row, error) {
	query := `SELECT ` + studentColumns + ` FROM alumno WHERE id_grupo = $1 ORDER BY apellido_paterno, nombre`
	return r.queryRows(ctx, query, groupID)
}

func (r *studentRepository) SearchByName(ctx context.Context, tokens []string) ([]models.Row, error) {
	if len(tokens) == 0 {
		return []models.Row{}, nil
	}
	where, args := nameFilter(tokens, 1, "nombre", "apellido_paterno", "apellido_materno")
	return r.queryRows(ctx, `SELECT `+studentColumns+` FROM alumno WHERE `+where, args...)
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE alumno
		SET id_grupo = $1, nombre = $2, apellido_paterno = $3, apellido_materno = $4,
			fecha_nacimiento = $5, sexo = $6
		WHERE id_alumno = $7
	`
	_, err := exec(ctx, r.db, query,
		student.GroupID,
		student.Name,
		student.PaternalSurname,
		optional(student.MaternalSurname),
		optionalText(student.BirthDate),
		optionalText(student.Sex),
		student.ID,
	)
	return err
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	_, err := exec(ctx, r.db, `DELETE FROM alumno WHERE id_alumno = $1`, id)
	return err
}

func (r *studentRepository) CountGrades(ctx context.Context, id string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM calificaciones WHERE id_alumno = $1`, id)
}

func (r *studentRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM alumno WHERE id_alumno = $1)`, id)
}
