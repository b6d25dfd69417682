package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"project-system/internal/authz"
	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/events"
	"project-system/internal/repositories"
	"project-system/internal/workflow"
	"project-system/pkg/constants"
	apperrors "project-system/pkg/errors"
	"project-system/pkg/eventbus"
	"project-system/pkg/filestorage"
	"project-system/pkg/utils"
)

type WorkItemServiceInterface interface {
	GetWorkItems(ctx context.Context, filter repositories.WorkItemFilter) ([]dto.WorkItemDTO, uint64, error)
	FindWorkItem(ctx context.Context, id uint64) (*dto.WorkItemDTO, error)
	CreateWorkItem(ctx context.Context, payload dto.CreateWorkItemDTO) (*dto.WorkItemDTO, error)
	UpdateWorkItem(ctx context.Context, id uint64, payload dto.UpdateWorkItemDTO) (*dto.WorkItemDTO, error)
	DeleteWorkItem(ctx context.Context, id uint64) error
	SetStatus(ctx context.Context, id uint64, payload dto.DirectStatusDTO) (*dto.WorkItemDTO, error)
	SubmitApproval(ctx context.Context, id uint64, payload dto.SubmitApprovalDTO, attachment *multipart.FileHeader) (*dto.WorkItemDTO, error)
	DecideApproval(ctx context.Context, id uint64, payload dto.DecideApprovalDTO) (*dto.WorkItemDTO, error)
	Delegate(ctx context.Context, id uint64, payload dto.DelegateWorkItemDTO) (*dto.WorkItemDTO, error)
	Reorder(ctx context.Context, id uint64, payload dto.ReorderWorkItemDTO) (*dto.WorkItemDTO, error)
	RecomputeDerived(ctx context.Context) (int, error)
}

type workItemService struct {
	workItemRepo repositories.WorkItemRepositoryInterface
	projectRepo  repositories.ProjectRepositoryInterface
	historyRepo  repositories.HistoryRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	txManager    repositories.TxManagerInterface
	eventBus     *eventbus.Bus
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewWorkItemService(
	workItemRepo repositories.WorkItemRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	historyRepo repositories.HistoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	eventBus *eventbus.Bus,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) WorkItemServiceInterface {
	return &workItemService{
		workItemRepo: workItemRepo,
		projectRepo:  projectRepo,
		historyRepo:  historyRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		eventBus:     eventBus,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func actorFromContext(ctx context.Context) (authz.Actor, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{ID: userID, Role: utils.UserRoleFromContext(ctx)}, nil
}

func (s *workItemService) GetWorkItems(ctx context.Context, filter repositories.WorkItemFilter) ([]dto.WorkItemDTO, uint64, error) {
	items, total, err := s.workItemRepo.GetWorkItems(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.participants(ctx, items)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.WorkItemDTO, 0, len(items))
	for i := range items {
		result = append(result, buildWorkItemDTO(&items[i], users))
	}
	return result, total, nil
}

func (s *workItemService) FindWorkItem(ctx context.Context, id uint64) (*dto.WorkItemDTO, error) {
	item, err := s.workItemRepo.FindWorkItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, item)
}

func (s *workItemService) CreateWorkItem(ctx context.Context, payload dto.CreateWorkItemDTO) (*dto.WorkItemDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validateParticipants(ctx, payload.ResponsibleID, payload.ApproverID); err != nil {
		return nil, err
	}
	if err := s.validatePlacement(ctx, payload.Kind, payload.ProjectID, payload.ParentID); err != nil {
		return nil, err
	}

	item := &entities.WorkItem{
		Kind:          payload.Kind,
		Title:         payload.Title,
		Priority:      payload.Priority,
		StartDate:     null.StringFromPtr(payload.StartDate),
		EndDate:       null.StringFromPtr(payload.EndDate),
		Status:        constants.StatusNotStarted,
		UseWorkflow:   payload.UseWorkflow,
		ResponsibleID: payload.ResponsibleID,
		ApproverID:    payload.ApproverID,
		OwnerID:       actor.ID,
		ProjectID:     null.Uint64FromPtr(payload.ProjectID),
		ParentID:      null.Uint64FromPtr(payload.ParentID),
	}
	if item.Priority == "" {
		item.Priority = constants.PriorityMedium
	}

	var created *entities.WorkItem
	var entry *entities.HistoryEntry

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		created, err = s.workItemRepo.CreateWorkItemInTx(ctx, tx, item)
		if err != nil {
			return err
		}

		entry, err = s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
			ItemID: created.ID,
			Status: constants.StatusCreated,
			UserID: actor.ID,
			TxID:   uuid.New(),
		})
		if err != nil {
			return err
		}

		return s.propagateInTx(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishHistory(ctx, []entities.HistoryEntry{*entry}, created, actor.ID)
	return s.toDTO(ctx, created)
}

func (s *workItemService) UpdateWorkItem(ctx context.Context, id uint64, payload dto.UpdateWorkItemDTO) (*dto.WorkItemDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entities.WorkItem
	var entries []entities.HistoryEntry

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.workItemRepo.FindWorkItemForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.CanEditWorkItem(actor, current); err != nil {
			return err
		}

		setClauses := map[string]interface{}{}
		if payload.Title != nil {
			setClauses["title"] = *payload.Title
		}
		if payload.Priority != nil {
			setClauses["priority"] = *payload.Priority
		}
		if payload.StartDate != nil {
			setClauses["start_date"] = *payload.StartDate
		}
		if payload.EndDate != nil {
			setClauses["end_date"] = *payload.EndDate
		}
		if payload.ApproverID != nil {
			setClauses["approver_id"] = *payload.ApproverID
		}
		if payload.UseWorkflow != nil {
			setClauses["use_workflow"] = *payload.UseWorkflow
		}
		if payload.KanbanOrder != nil {
			setClauses["kanban_order"] = *payload.KanbanOrder
		}

		reassigned := payload.ResponsibleID != nil && *payload.ResponsibleID != current.ResponsibleID
		if reassigned {
			if err := s.validateParticipants(ctx, *payload.ResponsibleID, current.ApproverID); err != nil {
				return err
			}
			setClauses["responsible_id"] = *payload.ResponsibleID
		}

		updated, err = s.workItemRepo.UpdateFieldsInTx(ctx, tx, id, payload.Version, setClauses)
		if err != nil {
			return err
		}

		// Смена исполнителя фиксируется в истории: новому исполнителю
		// уйдёт уведомление о назначении.
		if reassigned {
			entry, err := s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
				ItemID:  id,
				Status:  constants.StatusCreated,
				UserID:  actor.ID,
				Comment: null.StringFrom("ответственный изменён"),
				TxID:    uuid.New(),
			})
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}

		if payload.UseWorkflow != nil {
			return s.propagateInTx(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishHistory(ctx, entries, updated, actor.ID)
	return s.toDTO(ctx, updated)
}

func (s *workItemService) DeleteWorkItem(ctx context.Context, id uint64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.workItemRepo.FindWorkItemForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.CanEditWorkItem(actor, current); err != nil {
			return err
		}

		deleted, err := s.workItemRepo.DeleteSubtreeInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		s.logger.Info("Элемент удалён вместе с поддеревом",
			zap.Uint64("itemID", id), zap.Int64("rows", deleted))

		return s.propagateInTx(ctx, tx)
	})
}

// SetStatus - прямая смена статуса для элементов без согласования.
func (s *workItemService) SetStatus(ctx context.Context, id uint64, payload dto.DirectStatusDTO) (*dto.WorkItemDTO, error) {
	return s.transition(ctx, id, payload.Version, nil, nil,
		func(item *entities.WorkItem, state workflow.State, actor authz.Actor) (workflow.Transition, error) {
			if item.UseWorkflow {
				return workflow.Transition{}, fmt.Errorf("%w: элемент проходит согласование, прямая смена статуса недоступна", apperrors.ErrInvalidTransition)
			}
			if err := authz.CanChangeStatus(actor, item); err != nil {
				return workflow.Transition{}, err
			}
			return workflow.DirectSet(state, workflow.Status(payload.Status))
		})
}

// SubmitApproval - запрос на смену статуса через согласующего, с
// необязательным файлом-вложением.
func (s *workItemService) SubmitApproval(ctx context.Context, id uint64, payload dto.SubmitApprovalDTO, attachment *multipart.FileHeader) (*dto.WorkItemDTO, error) {
	var fileURL, fileName *string
	if attachment != nil {
		if err := utils.ValidateUploadedFile(attachment); err != nil {
			return nil, err
		}
		src, err := attachment.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()

		path, err := s.fileStorage.Save(src, attachment.Filename, "approvals")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamFailure, err)
		}
		url := "/uploads/" + path
		fileURL = &url
		fileName = &attachment.Filename
	}

	return s.transition(ctx, id, payload.Version, payload.Comment, filePair(fileURL, fileName),
		func(item *entities.WorkItem, state workflow.State, actor authz.Actor) (workflow.Transition, error) {
			if !item.UseWorkflow {
				return workflow.Transition{}, fmt.Errorf("%w: для элемента согласование отключено", apperrors.ErrInvalidTransition)
			}
			if err := authz.CanChangeStatus(actor, item); err != nil {
				return workflow.Transition{}, err
			}
			return workflow.Submit(state, workflow.Status(payload.RequestedStatus))
		})
}

func (s *workItemService) DecideApproval(ctx context.Context, id uint64, payload dto.DecideApprovalDTO) (*dto.WorkItemDTO, error) {
	return s.transition(ctx, id, payload.Version, payload.Comment, nil,
		func(item *entities.WorkItem, state workflow.State, actor authz.Actor) (workflow.Transition, error) {
			if err := authz.CanDecide(actor, item); err != nil {
				return workflow.Transition{}, err
			}
			return workflow.Decide(state, workflow.Decision(payload.Decision))
		})
}

type attachmentInfo struct {
	url  string
	name string
}

func filePair(url, name *string) *attachmentInfo {
	if url == nil {
		return nil
	}
	return &attachmentInfo{url: *url, name: *name}
}

// transition - общий каркас всех переходов статуса: блокировка строки,
// вычисление перехода машиной состояний, применение с проверкой версии,
// запись истории и пересчёт агрегатов в одной транзакции.
func (s *workItemService) transition(
	ctx context.Context,
	id uint64,
	expectedVersion int,
	comment *string,
	attachment *attachmentInfo,
	decide func(item *entities.WorkItem, state workflow.State, actor authz.Actor) (workflow.Transition, error),
) (*dto.WorkItemDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entities.WorkItem
	var entry *entities.HistoryEntry

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.workItemRepo.FindWorkItemForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		state, err := workflow.StateFromColumns(current.Status,
			current.RequestedStatus.String, current.UnderlyingStatus.String)
		if err != nil {
			return err
		}

		tr, err := decide(current, state, actor)
		if err != nil {
			return err
		}

		updated, err = s.workItemRepo.ApplyTransitionInTx(ctx, tx, id, expectedVersion, tr)
		if err != nil {
			return err
		}

		historyEntry := &entities.HistoryEntry{
			ItemID:  id,
			Status:  string(tr.History.Status),
			UserID:  actor.ID,
			Comment: null.StringFromPtr(comment),
			TxID:    uuid.New(),
		}
		if tr.History.RequestedStatus != "" {
			historyEntry.RequestedStatus = null.StringFrom(string(tr.History.RequestedStatus))
		}
		if tr.History.ApprovalDecision != "" {
			historyEntry.ApprovalDecision = null.StringFrom(string(tr.History.ApprovalDecision))
		}
		if attachment != nil {
			historyEntry.FileURL = null.StringFrom(attachment.url)
			historyEntry.FileName = null.StringFrom(attachment.name)
		}

		entry, err = s.historyRepo.CreateInTx(ctx, tx, historyEntry)
		if err != nil {
			return err
		}

		return s.propagateInTx(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishHistory(ctx, []entities.HistoryEntry{*entry}, updated, actor.ID)
	return s.toDTO(ctx, updated)
}

// Delegate создаёт дочерний элемент с новым исполнителем. Делегированное
// поддерево входит в агрегаты родителя и проекта.
func (s *workItemService) Delegate(ctx context.Context, id uint64, payload dto.DelegateWorkItemDTO) (*dto.WorkItemDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validateParticipants(ctx, payload.ResponsibleID, payload.ApproverID); err != nil {
		return nil, err
	}

	var created *entities.WorkItem
	var entry *entities.HistoryEntry

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		parent, err := s.workItemRepo.FindWorkItemForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.CanChangeStatus(actor, parent); err != nil {
			return err
		}

		priority := payload.Priority
		if priority == "" {
			priority = parent.Priority
		}

		created, err = s.workItemRepo.CreateWorkItemInTx(ctx, tx, &entities.WorkItem{
			Kind:          parent.Kind,
			Title:         payload.Title,
			Priority:      priority,
			EndDate:       null.StringFromPtr(payload.EndDate),
			Status:        constants.StatusNotStarted,
			UseWorkflow:   payload.UseWorkflow,
			ResponsibleID: payload.ResponsibleID,
			ApproverID:    payload.ApproverID,
			OwnerID:       actor.ID,
			ProjectID:     parent.ProjectID,
			ParentID:      null.Uint64From(parent.ID),
		})
		if err != nil {
			return err
		}

		entry, err = s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
			ItemID: created.ID,
			Status: constants.StatusCreated,
			UserID: actor.ID,
			TxID:   uuid.New(),
		})
		if err != nil {
			return err
		}

		return s.propagateInTx(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishHistory(ctx, []entities.HistoryEntry{*entry}, created, actor.ID)
	return s.toDTO(ctx, created)
}

func (s *workItemService) Reorder(ctx context.Context, id uint64, payload dto.ReorderWorkItemDTO) (*dto.WorkItemDTO, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entities.WorkItem
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.workItemRepo.FindWorkItemForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.CanEditWorkItem(actor, current); err != nil {
			return err
		}

		updated, err = s.workItemRepo.UpdateFieldsInTx(ctx, tx, id, payload.Version,
			map[string]interface{}{"kanban_order": payload.KanbanOrder})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, updated)
}

// RecomputeDerived - полный пересчёт агрегированных статусов вне контекста
// конкретной мутации. Каждое изменение применяется отдельно, ошибки
// собираются и возвращаются одним значением.
func (s *workItemService) RecomputeDerived(ctx context.Context) (int, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return 0, err
	}
	if err := authz.CanRecomputeStatuses(actor); err != nil {
		return 0, err
	}

	applied := 0
	var errs []error

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		snapshot, err := s.workItemRepo.SnapshotForPropagation(ctx, tx)
		if err != nil {
			return err
		}
		projectStatuses, projectIDs, err := s.projectStatuses(ctx, tx)
		if err != nil {
			return err
		}

		for _, change := range workflow.Recompute(snapshot, projectIDs, projectStatuses) {
			var applyErr error
			if change.ItemID != 0 {
				applyErr = s.workItemRepo.SetDerivedStatusInTx(ctx, tx, change.ItemID, string(change.NewStatus))
			} else {
				applyErr = s.projectRepo.SetDerivedStatusInTx(ctx, tx, change.ProjectID, string(change.NewStatus))
			}
			if applyErr != nil {
				errs = append(errs, fmt.Errorf("элемент %d/проект %d: %w", change.ItemID, change.ProjectID, applyErr))
				continue
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, errors.Join(errs...)
}

// propagateInTx пересчитывает агрегированные статусы в транзакции текущей
// мутации: либо фиксируются все вычисленные изменения, либо ни одного.
func (s *workItemService) propagateInTx(ctx context.Context, tx pgx.Tx) error {
	snapshot, err := s.workItemRepo.SnapshotForPropagation(ctx, tx)
	if err != nil {
		return err
	}
	projectStatuses, projectIDs, err := s.projectStatuses(ctx, tx)
	if err != nil {
		return err
	}

	for _, change := range workflow.Recompute(snapshot, projectIDs, projectStatuses) {
		if change.ItemID != 0 {
			err = s.workItemRepo.SetDerivedStatusInTx(ctx, tx, change.ItemID, string(change.NewStatus))
		} else {
			err = s.projectRepo.SetDerivedStatusInTx(ctx, tx, change.ProjectID, string(change.NewStatus))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *workItemService) projectStatuses(ctx context.Context, tx pgx.Tx) (map[uint64]workflow.Status, []uint64, error) {
	raw, ids, err := s.projectRepo.StatusesByIDs(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	statuses := make(map[uint64]workflow.Status, len(raw))
	for id, st := range raw {
		statuses[id] = workflow.Status(st)
	}
	return statuses, ids, nil
}

func (s *workItemService) publishHistory(ctx context.Context, entries []entities.HistoryEntry, item *entities.WorkItem, actorID uint64) {
	if len(entries) == 0 || item == nil {
		return
	}
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		s.logger.Warn("Не удалось загрузить автора события", zap.Uint64("userID", actorID), zap.Error(err))
		actor = nil
	}
	for _, entry := range entries {
		s.eventBus.Publish(ctx, events.WorkItemHistoryCreatedEvent{Entry: entry, Item: item, Actor: actor})
	}
}

func (s *workItemService) validateParticipants(ctx context.Context, responsibleID, approverID uint64) error {
	users, err := s.userRepo.FindUsersByIDs(ctx, []uint64{responsibleID, approverID})
	if err != nil {
		return err
	}
	if _, ok := users[responsibleID]; !ok {
		return fmt.Errorf("%w: исполнитель не найден", apperrors.ErrBadRequest)
	}
	if _, ok := users[approverID]; !ok {
		return fmt.Errorf("%w: согласующий не найден", apperrors.ErrBadRequest)
	}
	return nil
}

// validatePlacement: активность живёт в проекте, действие - вне проектов;
// родитель должен быть того же вида и того же проекта.
func (s *workItemService) validatePlacement(ctx context.Context, kind string, projectID, parentID *uint64) error {
	if kind == entities.KindActivity && projectID == nil {
		return fmt.Errorf("%w: активность должна принадлежать проекту", apperrors.ErrBadRequest)
	}
	if kind == entities.KindAction && projectID != nil {
		return fmt.Errorf("%w: действие не может принадлежать проекту", apperrors.ErrBadRequest)
	}

	if projectID != nil {
		if _, err := s.projectRepo.FindProject(ctx, *projectID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: проект не найден", apperrors.ErrBadRequest)
			}
			return err
		}
	}

	if parentID != nil {
		parent, err := s.workItemRepo.FindWorkItem(ctx, *parentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: родительский элемент не найден", apperrors.ErrBadRequest)
			}
			return err
		}
		if parent.Kind != kind {
			return fmt.Errorf("%w: родитель должен быть того же вида", apperrors.ErrBadRequest)
		}
		if projectID != nil && (!parent.ProjectID.Valid || parent.ProjectID.Uint64 != *projectID) {
			return fmt.Errorf("%w: родитель принадлежит другому проекту", apperrors.ErrBadRequest)
		}
	}
	return nil
}

func (s *workItemService) participants(ctx context.Context, items []entities.WorkItem) (map[uint64]entities.User, error) {
	idSet := make(map[uint64]struct{})
	for i := range items {
		idSet[items[i].ResponsibleID] = struct{}{}
		idSet[items[i].ApproverID] = struct{}{}
		idSet[items[i].OwnerID] = struct{}{}
	}
	ids := make([]uint64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	return s.userRepo.FindUsersByIDs(ctx, ids)
}

func (s *workItemService) toDTO(ctx context.Context, item *entities.WorkItem) (*dto.WorkItemDTO, error) {
	users, err := s.participants(ctx, []entities.WorkItem{*item})
	if err != nil {
		return nil, err
	}
	result := buildWorkItemDTO(item, users)
	return &result, nil
}
