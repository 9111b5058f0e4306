package service

import (
	"context"
	"strings"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

type GroupService interface {
	List(ctx context.Context) ([]models.Group, error)
	Lookup(ctx context.Context, identifier string) ([]models.Group, error)
	Create(ctx context.Context, req *models.CreateGroupRequest) (*models.Group, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
	logger    zerolog.Logger
}

func NewGroupService(groupRepo repository.GroupRepository, logger zerolog.Logger) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	rows, err := s.groupRepo.GetAll(ctx)
	return decodeList[models.Group](rows, err, "groups")
}

// Lookup matches the identifier as a group id first, then as a substring
// of the group name.
func (s *groupService) Lookup(ctx context.Context, identifier string) ([]models.Group, error) {
	clean := strings.ToUpper(strings.TrimSpace(identifier))
	if clean == "" {
		return nil, Validation("identificador", "identifier must not be empty")
	}

	row, err := s.groupRepo.GetByID(ctx, clean)
	group, err := decodeOne[models.Group](row, err, "group")
	if err != nil {
		return nil, err
	}
	if group != nil {
		return []models.Group{*group}, nil
	}

	rows, err := s.groupRepo.SearchByName(ctx, clean)
	groups, err := decodeList[models.Group](rows, err, "groups")
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, NotFound("no group found with identifier %s", clean)
	}
	return groups, nil
}

func (s *groupService) Create(ctx context.Context, req *models.CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		ID:         strings.ToUpper(strings.TrimSpace(req.ID)),
		Name:       strings.TrimSpace(req.Name),
		Generation: strings.TrimSpace(req.Generation),
		Faculty:    strings.TrimSpace(req.Faculty),
	}

	exists, err := s.groupRepo.Exists(ctx, group.ID)
	if err != nil {
		return nil, Infra(err, "failed to check group existence")
	}
	if exists {
		return nil, Conflict("group %s already exists", group.ID)
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		if isDuplicate(err) {
			return nil, Conflict("group %s already exists", group.ID)
		}
		return nil, Infra(err, "failed to create group")
	}

	s.logger.Info().Str("group_id", group.ID).Msg("Group created")
	return group, nil
}
