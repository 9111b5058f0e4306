package repository

import (
	"context"
	"database/sql"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

// CourseRelations lists what still references a course.
type CourseRelations struct {
	Assignments []models.Row `json:"asignaciones"`
	Grades      int          `json:"calificaciones"`
	Schedules   []models.Row `json:"horarios"`
}

func (r CourseRelations) Any() bool {
	return len(r.Assignments) > 0 || r.Grades > 0 || len(r.Schedules) > 0
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (models.Row, error)
	GetByCode(ctx context.Context, code string) (models.Row, error)
	GetByNameInsensitive(ctx context.Context, name string) (models.Row, error)
	Search(ctx context.Context, term string) ([]models.Row, error)
	GetAll(ctx context.Context) ([]models.Row, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	Relations(ctx context.Context, id string) (CourseRelations, error)
}

type courseRepository struct {
	*PostgresRepository
}

func NewCourseRepository(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const courseColumns = `id_curso, nombre, codigo, descripcion`

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `INSERT INTO curso (` + courseColumns + `) VALUES ($1, $2, $3, $4)`
	_, err := exec(ctx, r.db, query,
		course.ID,
		course.Name,
		optional(course.Code),
		optional(course.Description),
	)
	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+courseColumns+` FROM curso WHERE id_curso = $1`, id)
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+courseColumns+` FROM curso WHERE codigo = $1`, code)
}

func (r *courseRepository) GetByNameInsensitive(ctx context.Context, name string) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+courseColumns+` FROM curso WHERE nombre ILIKE $1 LIMIT 1`, escapeLike(name))
}

func (r *courseRepository) Search(ctx context.Context, term string) ([]models.Row, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM curso
		WHERE nombre ILIKE $1 OR codigo ILIKE $1
		ORDER BY nombre
	`
	return r.queryRows(ctx, query, containsPattern(term))
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.Row, error) {
	return r.queryRows(ctx, `SELECT `+courseColumns+` FROM curso ORDER BY nombre`)
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `UPDATE curso SET nombre = $1, codigo = $2, descripcion = $3 WHERE id_curso = $4`
	_, err := exec(ctx, r.db, query,
		course.Name,
		optional(course.Code),
		optional(course.Description),
		course.ID,
	)
	return err
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	_, err := exec(ctx, r.db, `DELETE FROM curso WHERE id_curso = $1`, id)
	return err
}

func (r *courseRepository) Relations(ctx context.Context, id string) (CourseRelations, error) {
	var rel CourseRelations
	var err error

	rel.Assignments, err = r.queryRows(ctx, `
		SELECT a.id_asignacion, g.nombre_grupo AS grupo,
			TRIM(m.nombre || ' ' || m.apellido_paterno) AS maestro
		FROM asignacion a
		JOIN grupo g ON g.id_grupo = a.id_grupo
		JOIN maestro m ON m.id_usuario = a.id_maestro
		WHERE a.id_curso = $1
		ORDER BY a.id_asignacion
	`, id)
	if err != nil {
		return rel, err
	}

	rel.Grades, err = r.count(ctx, `
		SELECT COUNT(*)
		FROM calificaciones c
		JOIN asignacion a ON a.id_asignacion = c.id_asignacion
		WHERE a.id_curso = $1
	`, id)
	if err != nil {
		return rel, err
	}

	rel.Schedules, err = r.queryRows(ctx, `
		SELECT h.id_horario, h.dia_semana, h.hora_inicio, h.hora_fin
		FROM horario_asignacion h
		JOIN asignacion a ON a.id_asignacion = h.id_asignacion
		WHERE a.id_curso = $1
		ORDER BY h.id_horario
	`, id)
	return rel, err
}
