package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"project-system/internal/authz"
	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/repositories"
	"project-system/pkg/constants"
)

type ProjectServiceInterface interface {
	GetProjects(ctx context.Context, limit, offset uint64, search string) ([]dto.ProjectDTO, uint64, error)
	FindProject(ctx context.Context, id uint64) (*dto.ProjectDetailDTO, error)
	CreateProject(ctx context.Context, payload dto.CreateProjectDTO) (*dto.ProjectDTO, error)
	UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO) (*dto.ProjectDTO, error)
	DeleteProject(ctx context.Context, id uint64) error
}

type projectService struct {
	projectRepo  repositories.ProjectRepositoryInterface
	workItemRepo repositories.WorkItemRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	txManager    repositories.TxManagerInterface
	logger       *zap.Logger
}

func NewProjectService(
	projectRepo repositories.ProjectRepositoryInterface,
	workItemRepo repositories.WorkItemRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) ProjectServiceInterface {
	return &projectService{
		projectRepo:  projectRepo,
		workItemRepo: workItemRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (s *projectService) GetProjects(ctx context.Context, limit, offset uint64, search string) ([]dto.ProjectDTO, uint64, error) {
	projects, total, err := s.projectRepo.GetProjects(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}

	idSet := make(map[uint64]struct{}, len(projects))
	for i := range projects {
		idSet[projects[i].OwnerID] = struct{}{}
	}
	ids := make([]uint64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.ProjectDTO, 0, len(projects))
	for i := range projects {
		result = append(result, buildProjectDTO(&projects[i], users))
	}
	return result, total, nil
}

// FindProject возвращает проект вместе с деревом активностей и процентом
// завершения (доля активностей со статусом "خاتمه یافته", подтверждённым
// согласованием там, где оно включено).
func (s *projectService) FindProject(ctx context.Context, id uint64) (*dto.ProjectDetailDTO, error) {
	project, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}

	items, _, err := s.workItemRepo.GetWorkItems(ctx, repositories.WorkItemFilter{
		Kind:      entities.KindActivity,
		ProjectID: id,
	})
	if err != nil {
		return nil, err
	}

	idSet := map[uint64]struct{}{project.OwnerID: {}}
	for i := range items {
		idSet[items[i].ResponsibleID] = struct{}{}
		idSet[items[i].ApproverID] = struct{}{}
		idSet[items[i].OwnerID] = struct{}{}
	}
	ids := make([]uint64, 0, len(idSet))
	for uid := range idSet {
		ids = append(ids, uid)
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &dto.ProjectDetailDTO{
		ProjectDTO: buildProjectDTO(project, users),
		Activities: buildWorkItemTree(items, users),
	}

	if len(items) > 0 {
		finished := 0
		for i := range items {
			it := &items[i]
			if it.Status != constants.StatusFinished {
				continue
			}
			if it.UseWorkflow && it.ApprovalStatus.String != constants.ApprovalApproved {
				continue
			}
			finished++
		}
		detail.CompletionPercent = finished * 100 / len(items)
	}

	return detail, nil
}

func buildWorkItemTree(items []entities.WorkItem, users map[uint64]entities.User) []dto.WorkItemTreeDTO {
	byParent := make(map[uint64][]*entities.WorkItem)
	known := make(map[uint64]bool, len(items))
	for i := range items {
		known[items[i].ID] = true
	}
	for i := range items {
		parentID := uint64(0)
		// Элемент с родителем вне выборки показывается как корневой.
		if items[i].ParentID.Valid && known[items[i].ParentID.Uint64] {
			parentID = items[i].ParentID.Uint64
		}
		byParent[parentID] = append(byParent[parentID], &items[i])
	}

	var build func(parentID uint64) []dto.WorkItemTreeDTO
	build = func(parentID uint64) []dto.WorkItemTreeDTO {
		children := byParent[parentID]
		if len(children) == 0 {
			return nil
		}
		nodes := make([]dto.WorkItemTreeDTO, 0, len(children))
		for _, item := range children {
			nodes = append(nodes, dto.WorkItemTreeDTO{
				WorkItemDTO: buildWorkItemDTO(item, users),
				Children:    build(item.ID),
			})
		}
		return nodes
	}

	tree := build(0)
	if tree == nil {
		tree = []dto.WorkItemTreeDTO{}
	}
	return tree
}

func (s *projectService) CreateProject(ctx context.Context, payload dto.CreateProjectDTO) (*dto.ProjectDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.projectRepo.CreateProject(ctx, &entities.Project{
		Title:       payload.Title,
		Description: null.StringFromPtr(payload.Description),
		Status:      constants.StatusNotStarted,
		UseWorkflow: payload.UseWorkflow,
		OwnerID:     actor.ID,
		StartDate:   null.StringFromPtr(payload.StartDate),
		EndDate:     null.StringFromPtr(payload.EndDate),
	})
	if err != nil {
		return nil, err
	}

	return s.toDTO(ctx, created)
}

func (s *projectService) UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO) (*dto.ProjectDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanEditProject(actor, current); err != nil {
		return nil, err
	}

	setClauses := map[string]interface{}{}
	if payload.Title != nil {
		setClauses["title"] = *payload.Title
	}
	if payload.Description != nil {
		setClauses["description"] = *payload.Description
	}
	if payload.UseWorkflow != nil {
		setClauses["use_workflow"] = *payload.UseWorkflow
	}
	if payload.StartDate != nil {
		setClauses["start_date"] = *payload.StartDate
	}
	if payload.EndDate != nil {
		setClauses["end_date"] = *payload.EndDate
	}

	updated, err := s.projectRepo.UpdateProject(ctx, id, setClauses)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, updated)
}

func (s *projectService) DeleteProject(ctx context.Context, id uint64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	current, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanEditProject(actor, current); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.projectRepo.DeleteProjectInTx(ctx, tx, id)
	})
}

func (s *projectService) toDTO(ctx context.Context, project *entities.Project) (*dto.ProjectDTO, error) {
	users, err := s.userRepo.FindUsersByIDs(ctx, []uint64{project.OwnerID})
	if err != nil {
		return nil, err
	}
	result := buildProjectDTO(project, users)
	return &result, nil
}
