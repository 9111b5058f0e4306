package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/Angel-crypt/backend-we/internal/session"
	"github.com/rs/zerolog"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest, role models.Role) (string, *session.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*session.Session, error)
	CreateAdmin(ctx context.Context, userID, password string) error
}

type authService struct {
	userRepo    repository.UserRepository
	teacherRepo repository.TeacherRepository
	sessions    session.Store
	logger      zerolog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	teacherRepo repository.TeacherRepository,
	sessions session.Store,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		teacherRepo: teacherRepo,
		sessions:    sessions,
		logger:      logger,
	}
}

// Login checks the credentials of a user of the given role and opens a session.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest, role models.Role) (string, *session.Session, error) {
	raw, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return "", nil, Infra(err, "failed to get user")
	}
	user, err := models.DecodeRow[models.User](raw)
	if err != nil {
		return "", nil, Infra(err, "failed to decode user")
	}
	if user == nil {
		return "", nil, Unauthenticated("invalid credentials")
	}
	if user.Role != role {
		return "", nil, Forbidden("access denied, only %s users can log in here", role)
	}
	if err := CheckPassword(user.PasswordHash, req.Password); err != nil {
		return "", nil, Unauthenticated("invalid credentials")
	}

	if role == models.RoleTeacher {
		exists, err := s.teacherRepo.Exists(ctx, user.ID)
		if err != nil {
			return "", nil, Infra(err, "failed to check teacher profile")
		}
		if !exists {
			return "", nil, NotFound("teacher profile not found")
		}
	}

	sess := session.Session{UserID: user.ID, Role: user.Role}
	token, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return "", nil, Infra(err, "failed to create session")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", role.String()).
		Msg("User logged in")

	return token, &sess, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return Infra(err, "failed to delete session")
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return nil, Unauthenticated("not authenticated")
	}
	if err != nil {
		return nil, Infra(err, "failed to load session")
	}
	return sess, nil
}

// CreateAdmin provisions an administrator account.
func (s *authService) CreateAdmin(ctx context.Context, userID, password string) error {
	if len(userID) != 6 {
		return Validation("id_usuario", "id_usuario must be exactly 6 characters")
	}
	if len(password) < 6 {
		return Validation("contrasena", "contrasena must be at least 6 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{ID: userID, PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Conflict("user %s already exists", userID)
		}
		return Infra(err, "failed to create admin")
	}

	s.logger.Info().Str("user_id", userID).Msg("Admin created")
	return nil
}
