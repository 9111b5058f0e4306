package repository

import (
	"context"
	"database/sql"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Row, error)
	GetOwned(ctx context.Context, id int64, teacherID string) (models.Row, error)
	GetDetailed(ctx context.Context, id int64) (models.Row, error)
	GetAllDetailed(ctx context.Context) ([]models.Row, error)
	GetByTeacherDetailed(ctx context.Context, teacherID string) ([]models.Row, error)
	GetByTeacherAndGroup(ctx context.Context, teacherID, groupID string) ([]models.Row, error)
	GetGroupsByTeacher(ctx context.Context, teacherID string) ([]models.Row, error)
	GetCoursesByTeacher(ctx context.Context, teacherID string) ([]models.Row, error)
	GetLessonPlans(ctx context.Context, teacherID string) ([]models.Row, error)
	SetLessonPlanURL(ctx context.Context, id int64, url *string) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const assignmentColumns = `id_asignacion, id_curso, id_grupo, id_maestro, planeacion_pdf_url`

// detailedAssignmentSelect embeds course, group and teacher the way a
// table API returns related rows.
const detailedAssignmentSelect = `
	SELECT a.id_asignacion, a.id_curso, a.id_grupo, a.id_maestro, a.planeacion_pdf_url,
		json_build_object('id_curso', c.id_curso, 'nombre', c.nombre, 'codigo', c.codigo,
			'descripcion', c.descripcion) AS curso,
		json_build_object('id_grupo', g.id_grupo, 'nombre_grupo', g.nombre_grupo,
			'generacion', g.generacion, 'facultad', g.facultad) AS grupo,
		json_build_object('id_usuario', m.id_usuario, 'nombre', m.nombre,
			'apellido_paterno', m.apellido_paterno, 'apellido_materno', m.apellido_materno,
			'especialidad', m.especialidad) AS maestro,
		(SELECT COUNT(*) FROM alumno al WHERE al.id_grupo = a.id_grupo) AS total_alumnos,
		COALESCE(a.planeacion_pdf_url, '') <> '' AS tiene_planeacion
	FROM asignacion a
	JOIN curso c ON c.id_curso = a.id_curso
	JOIN grupo g ON g.id_grupo = a.id_grupo
	JOIN maestro m ON m.id_usuario = a.id_maestro
`

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) (int64, error) {
	query := `
		INSERT INTO asignacion (id_curso, id_grupo, id_maestro, planeacion_pdf_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id_asignacion
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		assignment.CourseID,
		assignment.GroupID,
		assignment.TeacherID,
		optional(assignment.LessonPlanURL),
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+assignmentColumns+` FROM asignacion WHERE id_asignacion = $1`, id)
}

func (r *assignmentRepository) GetOwned(ctx context.Context, id int64, teacherID string) (models.Row, error) {
	query := `SELECT ` + assignmentColumns + ` FROM asignacion WHERE id_asignacion = $1 AND id_maestro = $2`
	return r.queryRow(ctx, query, id, teacherID)
}

func (r *assignmentRepository) GetDetailed(ctx context.Context, id int64) (models.Row, error) {
	return r.queryRow(ctx, detailedAssignmentSelect+` WHERE a.id_asignacion = $1`, id)
}

func (r *assignmentRepository) GetAllDetailed(ctx context.Context) ([]models.Row, error) {
	return r.queryRows(ctx, detailedAssignmentSelect+` ORDER BY a.id_asignacion`)
}

func (r *assignmentRepository) GetByTeacherDetailed(ctx context.Context, teacherID string) ([]models.Row, error) {
	return r.queryRows(ctx, detailedAssignmentSelect+` WHERE a.id_maestro = $1 ORDER BY a.id_asignacion`, teacherID)
}

func (r *assignmentRepository) GetByTeacherAndGroup(ctx context.Context, teacherID, groupID string) ([]models.Row, error) {
	query := detailedAssignmentSelect + ` WHERE a.id_maestro = $1 AND a.id_grupo = $2 ORDER BY a.id_asignacion`
	return r.queryRows(ctx, query, teacherID, groupID)
}

func (r *assignmentRepository) GetGroupsByTeacher(ctx context.Context, teacherID string) ([]models.Row, error) {
	query := `
		SELECT g.id_grupo, g.nombre_grupo, g.generacion, g.facultad,
			COUNT(a.id_asignacion) AS total_asignaciones,
			(SELECT COUNT(*) FROM alumno al WHERE al.id_grupo = g.id_grupo) AS total_alumnos
		FROM grupo g
		JOIN asignacion a ON a.id_grupo = g.id_grupo
		WHERE a.id_maestro = $1
		GROUP BY g.id_grupo, g.nombre_grupo, g.generacion, g.facultad
		ORDER BY g.nombre_grupo
	`
	return r.queryRows(ctx, query, teacherID)
}

func (r *assignmentRepository) GetCoursesByTeacher(ctx context.Context, teacherID string) ([]models.Row, error) {
	query := `
		SELECT a.id_asignacion, c.id_curso, c.nombre, c.codigo, c.descripcion,
			json_build_object('id_grupo', g.id_grupo, 'nombre_grupo', g.nombre_grupo) AS grupo
		FROM asignacion a
		JOIN curso c ON c.id_curso = a.id_curso
		JOIN grupo g ON g.id_grupo = a.id_grupo
		WHERE a.id_maestro = $1
		ORDER BY c.nombre
	`
	return r.queryRows(ctx, query, teacherID)
}

// GetLessonPlans lists assignments with an uploaded plan; an empty
// teacherID lists every teacher.
func (r *assignmentRepository) GetLessonPlans(ctx context.Context, teacherID string) ([]models.Row, error) {
	query := detailedAssignmentSelect + `
		WHERE COALESCE(a.planeacion_pdf_url, '') <> ''
			AND ($1 = '' OR a.id_maestro = $1)
		ORDER BY a.id_asignacion
	`
	return r.queryRows(ctx, query, teacherID)
}

func (r *assignmentRepository) SetLessonPlanURL(ctx context.Context, id int64, url *string) error {
	n, err := exec(ctx, r.db, `UPDATE asignacion SET planeacion_pdf_url = $1 WHERE id_asignacion = $2`, optional(url), id)
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM asignacion WHERE id_asignacion = $1)`, id)
}
