package services

import (
	"context"

	"go.uber.org/zap"

	"project-system/internal/authz"
	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/repositories"
)

type UnitServiceInterface interface {
	GetUnits(ctx context.Context, limit, offset uint64) ([]dto.UnitDTO, uint64, error)
	FindUnit(ctx context.Context, id uint64) (*dto.UnitDTO, error)
	CreateUnit(ctx context.Context, payload dto.CreateUnitDTO) (*dto.UnitDTO, error)
	UpdateUnit(ctx context.Context, id uint64, payload dto.UpdateUnitDTO) (*dto.UnitDTO, error)
	DeleteUnit(ctx context.Context, id uint64) error
}

type unitService struct {
	unitRepo repositories.UnitRepositoryInterface
	logger   *zap.Logger
}

func NewUnitService(unitRepo repositories.UnitRepositoryInterface, logger *zap.Logger) UnitServiceInterface {
	return &unitService{unitRepo: unitRepo, logger: logger}
}

func buildUnitDTO(unit *entities.Unit) dto.UnitDTO {
	return dto.UnitDTO{
		ID:        unit.ID,
		Name:      unit.Name,
		CreatedAt: formatTime(unit.CreatedAt),
		UpdatedAt: formatNullTime(unit.UpdatedAt),
	}
}

func (s *unitService) GetUnits(ctx context.Context, limit, offset uint64) ([]dto.UnitDTO, uint64, error) {
	units, total, err := s.unitRepo.GetUnits(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.UnitDTO, 0, len(units))
	for i := range units {
		result = append(result, buildUnitDTO(&units[i]))
	}
	return result, total, nil
}

func (s *unitService) FindUnit(ctx context.Context, id uint64) (*dto.UnitDTO, error) {
	unit, err := s.unitRepo.FindUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	result := buildUnitDTO(unit)
	return &result, nil
}

func (s *unitService) CreateUnit(ctx context.Context, payload dto.CreateUnitDTO) (*dto.UnitDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return nil, err
	}

	created, err := s.unitRepo.CreateUnit(ctx, payload.Name)
	if err != nil {
		return nil, err
	}
	result := buildUnitDTO(created)
	return &result, nil
}

func (s *unitService) UpdateUnit(ctx context.Context, id uint64, payload dto.UpdateUnitDTO) (*dto.UnitDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return nil, err
	}
	if payload.Name == nil {
		return s.FindUnit(ctx, id)
	}

	updated, err := s.unitRepo.UpdateUnit(ctx, id, *payload.Name)
	if err != nil {
		return nil, err
	}
	result := buildUnitDTO(updated)
	return &result, nil
}

func (s *unitService) DeleteUnit(ctx context.Context, id uint64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return err
	}
	return s.unitRepo.DeleteUnit(ctx, id)
}
