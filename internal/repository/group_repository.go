package repository

import (
	"context"
	"database/sql"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (models.Row, error)
	SearchByName(ctx context.Context, term string) ([]models.Row, error)
	GetAll(ctx context.Context) ([]models.Row, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type groupRepository struct {
	*PostgresRepository
}

func NewGroupRepository(db *sql.DB, logger zerolog.Logger) GroupRepository {
	return &groupRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const groupColumns = `id_grupo, nombre_grupo, generacion, facultad`

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `INSERT INTO grupo (` + groupColumns + `) VALUES ($1, $2, $3, $4)`
	_, err := exec(ctx, r.db, query, group.ID, group.Name, group.Generation, group.Faculty)
	return err
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (models.Row, error) {
	return r.queryRow(ctx, `SELECT `+groupColumns+` FROM grupo WHERE id_grupo = $1`, id)
}

func (r *groupRepository) SearchByName(ctx context.Context, term string) ([]models.Row, error) {
	query := `SELECT ` + groupColumns + ` FROM grupo WHERE nombre_grupo ILIKE $1 ORDER BY nombre_grupo`
	return r.queryRows(ctx, query, containsPattern(term))
}

func (r *groupRepository) GetAll(ctx context.Context) ([]models.Row, error) {
	return r.queryRows(ctx, `SELECT `+groupColumns+` FROM grupo ORDER BY generacion DESC, nombre_grupo`)
}

func (r *groupRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM grupo WHERE id_grupo = $1)`, id)
}
