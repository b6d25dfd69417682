package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/repositories"
	"project-system/pkg/utils"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, onlyMine bool) (*dto.DashboardDTO, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	logger        *zap.Logger
}

// Дашборд - самый дорогой и самый читаемый экран, поэтому собранный ответ
// живёт минуту в Redis. Инвалидация по событиям не нужна: минутное
// отставание агрегатов на дашборде приемлемо.
const dashboardCacheTTL = time.Minute

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, onlyMine bool) (*dto.DashboardDTO, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	scopeID := uint64(0)
	if onlyMine {
		scopeID = userID
	}

	cacheKey := fmt.Sprintf("dashboard:%d", scopeID)
	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached != "" {
		var result dto.DashboardDTO
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	result := &dto.DashboardDTO{}

	if result.CountByStatus, err = s.dashboardRepo.CountByStatus(ctx, scopeID); err != nil {
		return nil, err
	}
	if result.CountByPriority, err = s.dashboardRepo.CountByPriority(ctx, scopeID); err != nil {
		return nil, err
	}
	if result.CountByResponsible, err = s.dashboardRepo.CountByResponsible(ctx); err != nil {
		return nil, err
	}
	if result.OverdueCount, err = s.dashboardRepo.CountOverdue(ctx, scopeID); err != nil {
		return nil, err
	}
	if result.PendingApprovals, err = s.dashboardRepo.CountPendingApprovals(ctx, scopeID); err != nil {
		return nil, err
	}
	if result.Projects, err = s.dashboardRepo.ProjectProgress(ctx); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cacheRepo.Set(ctx, cacheKey, payload, dashboardCacheTTL); err != nil {
			s.logger.Warn("Не удалось закешировать дашборд", zap.Error(err))
		}
	}

	return result, nil
}
