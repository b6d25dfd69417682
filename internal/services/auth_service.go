package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/repositories"
	apperrors "project-system/pkg/errors"
	"project-system/pkg/service"
	"project-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*dto.UserDTO, error)
}

type authService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &authService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func refreshKey(userID uint64) string {
	return fmt.Sprintf("auth:refresh:%d", userID)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.logger.Warn("Неудачная попытка входа", zap.String("username", payload.Username))
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID, user.Role, buildUserDTO(user))
}

// Refresh принимает действующий refresh-токен. Токен одноразовый: после
// обмена в хранилище остаётся только свежевыданный.
func (s *authService) Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	stored, err := s.cacheRepo.Get(ctx, refreshKey(claims.UserID))
	if err != nil || stored != payload.RefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user.ID, user.Role, buildUserDTO(user))
}

func (s *authService) Logout(ctx context.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.cacheRepo.Del(ctx, refreshKey(userID))
}

func (s *authService) Me(ctx context.Context) (*dto.UserDTO, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := buildUserDTO(user)
	return &result, nil
}

func (s *authService) issueTokens(ctx context.Context, userID uint64, role string, userDTO dto.UserDTO) (*dto.TokenPairDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(userID, role)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, refreshKey(userID), refresh, s.jwtService.GetRefreshTokenTTL()); err != nil {
		s.logger.Error("Не удалось сохранить refresh-токен", zap.Uint64("userID", userID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         userDTO,
	}, nil
}
