package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type GradeRepository interface {
	GetByAssignment(ctx context.Context, assignmentID int64) ([]models.Row, error)
	Get(ctx context.Context, assignmentID int64, studentID string) (models.Row, error)
	Upsert(ctx context.Context, assignmentID int64, partial int, entries []models.GradeEntry, at time.Time) (int64, error)
}

type gradeRepository struct {
	*PostgresRepository
}

func NewGradeRepository(db *sql.DB, logger zerolog.Logger) GradeRepository {
	return &gradeRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const gradeColumns = `id_calif_alum_curso, id_alumno, id_asignacion,
	calificacion_parcial_1, calificacion_parcial_2, calificacion_parcial_3,
	fecha_parcial_1, fecha_parcial_2, fecha_parcial_3, calificacion_final`

// GetByAssignment returns the grades of an assignment with the student embedded.
func (r *gradeRepository) GetByAssignment(ctx context.Context, assignmentID int64) ([]models.Row, error) {
	query := `
		SELECT c.id_calif_alum_curso, c.id_alumno, c.id_asignacion,
			c.calificacion_parcial_1, c.calificacion_parcial_2, c.calificacion_parcial_3,
			c.fecha_parcial_1, c.fecha_parcial_2, c.fecha_parcial_3, c.calificacion_final,
			json_build_object(
				'id_alumno', al.id_alumno,
				'nombre', al.nombre,
				'apellido_paterno', al.apellido_paterno,
				'apellido_materno', al.apellido_materno
			) AS alumno
		FROM calificaciones c
		JOIN alumno al ON al.id_alumno = c.id_alumno
		WHERE c.id_asignacion = $1
		ORDER BY al.apellido_paterno, al.nombre
	`
	return r.queryRows(ctx, query, assignmentID)
}

func (r *gradeRepository) Get(ctx context.Context, assignmentID int64, studentID string) (models.Row, error) {
	query := `SELECT ` + gradeColumns + ` FROM calificaciones WHERE id_asignacion = $1 AND id_alumno = $2`
	return r.queryRow(ctx, query, assignmentID, studentID)
}

// Upsert writes one partial score per student in a single statement,
// inserting missing records and updating existing ones.
func (r *gradeRepository) Upsert(ctx context.Context, assignmentID int64, partial int, entries []models.GradeEntry, at time.Time) (int64, error) {
	scoreCol, dateCol, err := models.PartialColumns(partial)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	students := make([]string, len(entries))
	scores := make([]float64, len(entries))
	for i, e := range entries {
		students[i] = e.StudentID
		if e.Score != nil {
			scores[i] = *e.Score
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO calificaciones (id_alumno, id_asignacion, %[1]s, %[2]s)
		SELECT t.id_alumno, $1, t.calificacion, $2
		FROM unnest($3::text[], $4::numeric[]) AS t(id_alumno, calificacion)
		ON CONFLICT (id_alumno, id_asignacion)
		DO UPDATE SET %[1]s = EXCLUDED.%[1]s, %[2]s = EXCLUDED.%[2]s
	`, scoreCol, dateCol)

	var affected int64
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		n, err := exec(ctx, tx, query,
			assignmentID,
			models.NaiveDateTime(at).String(),
			pq.Array(students),
			pq.Array(scores),
		)
		affected = n
		return err
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug().
		Int64("assignment_id", assignmentID).
		Int("partial", partial).
		Int64("rows", affected).
		Msg("Grades upserted")

	return affected, nil
}

type PartialWindowRepository interface {
	Find(ctx context.Context, assignmentID int64, partial int) (models.Row, error)
	Create(ctx context.Context, window *models.PartialWindow) (int64, error)
	GetAll(ctx context.Context) ([]models.Row, error)
	GetByAssignment(ctx context.Context, assignmentID int64) ([]models.Row, error)
}

type partialWindowRepository struct {
	*PostgresRepository
}

func NewPartialWindowRepository(db *sql.DB, logger zerolog.Logger) PartialWindowRepository {
	return &partialWindowRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const windowColumns = `id_fecha_parcial, id_asignacion, numero_parcial, fecha_inicio, fecha_fin, activo`

func (r *partialWindowRepository) Find(ctx context.Context, assignmentID int64, partial int) (models.Row, error) {
	query := `SELECT ` + windowColumns + ` FROM fechas_parciales WHERE id_asignacion = $1 AND numero_parcial = $2`
	return r.queryRow(ctx, query, assignmentID, partial)
}

func (r *partialWindowRepository) Create(ctx context.Context, window *models.PartialWindow) (int64, error) {
	query := `
		INSERT INTO fechas_parciales (id_asignacion, numero_parcial, fecha_inicio, fecha_fin, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_fecha_parcial
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		window.AssignmentID,
		window.Partial,
		window.Opens.String(),
		window.Closes.String(),
		window.Active,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *partialWindowRepository) GetAll(ctx context.Context) ([]models.Row, error) {
	return r.queryRows(ctx, `SELECT `+windowColumns+` FROM fechas_parciales ORDER BY id_asignacion, numero_parcial`)
}

func (r *partialWindowRepository) GetByAssignment(ctx context.Context, assignmentID int64) ([]models.Row, error) {
	query := `SELECT ` + windowColumns + ` FROM fechas_parciales WHERE id_asignacion = $1 ORDER BY numero_parcial`
	return r.queryRows(ctx, query, assignmentID)
}
