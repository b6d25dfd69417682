package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"project-system/internal/authz"
	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/repositories"
	apperrors "project-system/pkg/errors"
	"project-system/pkg/filestorage"
	"project-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, limit, offset uint64, search string) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64) error
	UploadPhoto(ctx context.Context, id uint64, photo *multipart.FileHeader) (*dto.UserDTO, error)
}

type userService struct {
	userRepo     repositories.UserRepositoryInterface
	workItemRepo repositories.WorkItemRepositoryInterface
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	workItemRepo repositories.WorkItemRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &userService{
		userRepo:     userRepo,
		workItemRepo: workItemRepo,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func (s *userService) GetUsers(ctx context.Context, limit, offset uint64, search string) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, buildUserDTO(&users[i]))
	}
	return result, total, nil
}

func (s *userService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := buildUserDTO(user)
	return &result, nil
}

func (s *userService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	role := payload.Role
	if role == "" {
		role = entities.RoleMember
	}

	created, err := s.userRepo.CreateUser(ctx, &entities.User{
		Username:     payload.Username,
		FullName:     payload.FullName,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         role,
		UnitID:       null.Uint64FromPtr(payload.UnitID),
		TeamID:       null.Uint64FromPtr(payload.TeamID),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создан пользователь", zap.Uint64("userID", created.ID), zap.String("role", created.Role))
	result := buildUserDTO(created)
	return &result, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	// Свою учётную запись пользователь правит сам, чужие - администратор.
	if actor.ID != id {
		if err := authz.CanManageUsers(actor); err != nil {
			return nil, err
		}
	}

	setClauses := map[string]interface{}{}
	if payload.FullName != nil {
		setClauses["full_name"] = *payload.FullName
	}
	if payload.Email != nil {
		setClauses["email"] = *payload.Email
	}
	if payload.Password != nil {
		hash, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		setClauses["password_hash"] = hash
	}
	if payload.Role != nil {
		// Роль меняет только администратор, даже себе.
		if err := authz.CanManageUsers(actor); err != nil {
			return nil, err
		}
		setClauses["role"] = *payload.Role
	}
	if payload.UnitID != nil {
		setClauses["unit_id"] = *payload.UnitID
	}
	if payload.TeamID != nil {
		setClauses["team_id"] = *payload.TeamID
	}

	updated, err := s.userRepo.UpdateUser(ctx, id, setClauses)
	if err != nil {
		return nil, err
	}
	result := buildUserDTO(updated)
	return &result, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if err := authz.CanManageUsers(actor); err != nil {
		return err
	}

	count, err := s.workItemRepo.CountByResponsible(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: пользователь участвует в %d элементах", apperrors.ErrConflict, count)
	}

	return s.userRepo.DeleteUser(ctx, id)
}

func (s *userService) UploadPhoto(ctx context.Context, id uint64, photo *multipart.FileHeader) (*dto.UserDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if actor.ID != id {
		if err := authz.CanManageUsers(actor); err != nil {
			return nil, err
		}
	}

	if err := utils.ValidateUploadedFile(photo); err != nil {
		return nil, err
	}
	src, err := photo.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	path, err := s.fileStorage.Save(src, photo.Filename, "photos")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamFailure, err)
	}

	current, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PhotoURL.Valid && current.PhotoURL.String != "" {
		if err := s.fileStorage.Delete(current.PhotoURL.String); err != nil {
			s.logger.Warn("Не удалось удалить старую фотографию", zap.Uint64("userID", id), zap.Error(err))
		}
	}

	updated, err := s.userRepo.UpdateUser(ctx, id, map[string]interface{}{
		"photo_url": "/uploads/" + path,
	})
	if err != nil {
		return nil, err
	}
	result := buildUserDTO(updated)
	return &result, nil
}
