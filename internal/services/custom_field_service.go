package services

import (
	"context"

	"go.uber.org/zap"

	"project-system/internal/authz"
	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/repositories"
)

type CustomFieldServiceInterface interface {
	GetCustomFields(ctx context.Context, limit, offset uint64) ([]dto.CustomFieldDTO, uint64, error)
	FindCustomField(ctx context.Context, id uint64) (*dto.CustomFieldDTO, error)
	CreateCustomField(ctx context.Context, payload dto.CreateCustomFieldDTO) (*dto.CustomFieldDTO, error)
	UpdateCustomField(ctx context.Context, id uint64, payload dto.UpdateCustomFieldDTO) (*dto.CustomFieldDTO, error)
	DeleteCustomField(ctx context.Context, id uint64) error
}

type customFieldService struct {
	fieldRepo repositories.CustomFieldRepositoryInterface
	logger    *zap.Logger
}

func NewCustomFieldService(fieldRepo repositories.CustomFieldRepositoryInterface, logger *zap.Logger) CustomFieldServiceInterface {
	return &customFieldService{fieldRepo: fieldRepo, logger: logger}
}

func buildCustomFieldDTO(field *entities.CustomField) dto.CustomFieldDTO {
	return dto.CustomFieldDTO{
		ID:        field.ID,
		Name:      field.Name,
		FieldType: field.FieldType,
		CreatedAt: formatTime(field.CreatedAt),
		UpdatedAt: formatNullTime(field.UpdatedAt),
	}
}

func (s *customFieldService) GetCustomFields(ctx context.Context, limit, offset uint64) ([]dto.CustomFieldDTO, uint64, error) {
	fields, total, err := s.fieldRepo.GetCustomFields(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.CustomFieldDTO, 0, len(fields))
	for i := range fields {
		result = append(result, buildCustomFieldDTO(&fields[i]))
	}
	return result, total, nil
}

func (s *customFieldService) FindCustomField(ctx context.Context, id uint64) (*dto.CustomFieldDTO, error) {
	field, err := s.fieldRepo.FindCustomField(ctx, id)
	if err != nil {
		return nil, err
	}
	result := buildCustomFieldDTO(field)
	return &result, nil
}

func (s *customFieldService) CreateCustomField(ctx context.Context, payload dto.CreateCustomFieldDTO) (*dto.CustomFieldDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return nil, err
	}

	created, err := s.fieldRepo.CreateCustomField(ctx, &entities.CustomField{
		Name:      payload.Name,
		FieldType: payload.FieldType,
	})
	if err != nil {
		return nil, err
	}
	result := buildCustomFieldDTO(created)
	return &result, nil
}

func (s *customFieldService) UpdateCustomField(ctx context.Context, id uint64, payload dto.UpdateCustomFieldDTO) (*dto.CustomFieldDTO, error) {
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
	if payload.FieldType != nil {
		setClauses["field_type"] = *payload.FieldType
	}

	updated, err := s.fieldRepo.UpdateCustomField(ctx, id, setClauses)
	if err != nil {
		return nil, err
	}
	result := buildCustomFieldDTO(updated)
	return &result, nil
}

func (s *customFieldService) DeleteCustomField(ctx context.Context, id uint64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if err := authz.CanManageDictionaries(actor); err != nil {
		return err
	}
	return s.fieldRepo.DeleteCustomField(ctx, id)
}
