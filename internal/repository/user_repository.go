package repository

import (
	"context"
	"database/sql"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (models.Row, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type userRepository struct {
	*PostgresRepository
}

func NewUserRepository(db *sql.DB, logger zerolog.Logger) UserRepository {
	return &userRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO usuario (id_usuario, contrasena, role) VALUES ($1, $2, $3)`
	_, err := exec(ctx, r.db, query, user.ID, user.PasswordHash, user.Role.String())
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (models.Row, error) {
	query := `
		SELECT id_usuario, contrasena, role, fecha_creacion
		FROM usuario
		WHERE id_usuario = $1
	`
	return r.queryRow(ctx, query, id)
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM usuario WHERE id_usuario = $1)`, id)
}
