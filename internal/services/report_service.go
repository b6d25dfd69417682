package services

import (
	"context"

	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/repositories"
)

type ReportServiceInterface interface {
	GetWorkItemReport(ctx context.Context, filter repositories.WorkItemFilter) ([]dto.ReportRowDTO, uint64, error)
}

type reportService struct {
	workItemRepo repositories.WorkItemRepositoryInterface
	projectRepo  repositories.ProjectRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	logger       *zap.Logger
}

func NewReportService(
	workItemRepo repositories.WorkItemRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		workItemRepo: workItemRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

func (s *reportService) GetWorkItemReport(ctx context.Context, filter repositories.WorkItemFilter) ([]dto.ReportRowDTO, uint64, error) {
	items, total, err := s.workItemRepo.GetWorkItems(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return []dto.ReportRowDTO{}, 0, nil
	}

	userIDs := make(map[uint64]struct{})
	projectTitles := make(map[uint64]string)
	for i := range items {
		userIDs[items[i].ResponsibleID] = struct{}{}
		userIDs[items[i].ApproverID] = struct{}{}
		if items[i].ProjectID.Valid {
			projectTitles[items[i].ProjectID.Uint64] = ""
		}
	}

	ids := make([]uint64, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	for projectID := range projectTitles {
		project, err := s.projectRepo.FindProject(ctx, projectID)
		if err != nil {
			s.logger.Warn("Отчёт: проект не найден", zap.Uint64("projectID", projectID), zap.Error(err))
			continue
		}
		projectTitles[projectID] = project.Title
	}

	fullName := func(id uint64) string {
		if u, ok := users[id]; ok {
			return u.FullName
		}
		return ""
	}

	rows := make([]dto.ReportRowDTO, 0, len(items))
	for i := range items {
		it := &items[i]
		row := dto.ReportRowDTO{
			ID:             it.ID,
			Kind:           it.Kind,
			Title:          it.Title,
			Priority:       it.Priority,
			Status:         it.Status,
			ApprovalStatus: it.ApprovalStatus.String,
			Responsible:    fullName(it.ResponsibleID),
			Approver:       fullName(it.ApproverID),
			StartDate:      it.StartDate.String,
			EndDate:        it.EndDate.String,
			CreatedAt:      formatTime(it.CreatedAt),
		}
		if it.ProjectID.Valid {
			row.Project = projectTitles[it.ProjectID.Uint64]
		}
		rows = append(rows, row)
	}

	return rows, total, nil
}
