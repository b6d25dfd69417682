package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"project-system/internal/authz"
	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/repositories"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context, limit, offset uint64, unitID uint64) ([]dto.TeamDTO, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, id uint64) error
}

type teamService struct {
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) TeamServiceInterface {
	return &teamService{teamRepo: teamRepo, logger: logger}
}

func buildTeamDTO(team *entities.Team) dto.TeamDTO {
	return dto.TeamDTO{
		ID:        team.ID,
		Name:      team.Name,
		UnitID:    uint64Ptr(team.UnitID),
		CreatedAt: formatTime(team.CreatedAt),
		UpdatedAt: formatNullTime(team.UpdatedAt),
	}
}

func (s *teamService) GetTeams(ctx context.Context, limit, offset uint64, unitID uint64) ([]dto.TeamDTO, uint64, error) {
	teams, total, err := s.teamRepo.GetTeams(ctx, limit, offset, unitID)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.TeamDTO, 0, len(teams))
	for i := range teams {
		result = append(result, buildTeamDTO(&teams[i]))
	}
	return result, total, nil
}

func (s *teamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	result := buildTeamDTO(team)
	return &result, nil
}

func (s *teamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return nil, err
	}

	created, err := s.teamRepo.CreateTeam(ctx, &entities.Team{
		Name:   payload.Name,
		UnitID: null.Uint64FromPtr(payload.UnitID),
	})
	if err != nil {
		return nil, err
	}
	result := buildTeamDTO(created)
	return &result, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return nil, err
	}

	setClauses := map[string]interface{}{}
	if payload.Name != nil {
		setClauses["name"] = *payload.Name
	}
	if payload.UnitID != nil {
		setClauses["unit_id"] = *payload.UnitID
	}

	updated, err := s.teamRepo.UpdateTeam(ctx, id, setClauses)
	if err != nil {
		return nil, err
	}
	result := buildTeamDTO(updated)
	return &result, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id uint64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return err
	}
	return s.teamRepo.DeleteTeam(ctx, id)
}
