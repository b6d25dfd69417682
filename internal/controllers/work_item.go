package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/repositories"
	"project-system/internal/services"
	apperrors "project-system/pkg/errors"
	"project-system/pkg/utils"
)

type WorkItemController struct {
	workItemService services.WorkItemServiceInterface
	historyService  services.HistoryServiceInterface
	logger          *zap.Logger
}

func NewWorkItemController(
	workItemService services.WorkItemServiceInterface,
	historyService services.HistoryServiceInterface,
	logger *zap.Logger,
) *WorkItemController {
	return &WorkItemController{
		workItemService: workItemService,
		historyService:  historyService,
		logger:          logger,
	}
}

func parseWorkItemFilter(ctx echo.Context) repositories.WorkItemFilter {
	limit, offset := utils.ParseLimitOffset(ctx.QueryParam("limit"), ctx.QueryParam("offset"))
	filter := repositories.WorkItemFilter{
		Kind:     ctx.QueryParam("kind"),
		Status:   ctx.QueryParam("status"),
		Priority: ctx.QueryParam("priority"),
		Search:   ctx.QueryParam("search"),
		Limit:    limit,
		Offset:   offset,
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("project_id"), 10, 64); err == nil {
		filter.ProjectID = v
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("parent_id"), 10, 64); err == nil {
		filter.ParentID = v
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("responsible_id"), 10, 64); err == nil {
		filter.ResponsibleID = v
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("approver_id"), 10, 64); err == nil {
		filter.ApproverID = v
	}
	if ctx.QueryParam("roots_only") == "true" {
		filter.RootsOnly = true
	}
	return filter
}

func (c *WorkItemController) GetWorkItems(ctx echo.Context) error {
	items, total, err := c.workItemService.GetWorkItems(ctx.Request().Context(), parseWorkItemFilter(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Список элементов получен", http.StatusOK, total)
}

func (c *WorkItemController) FindWorkItem(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.workItemService.FindWorkItem(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Элемент найден", http.StatusOK)
}

func (c *WorkItemController) CreateWorkItem(ctx echo.Context) error {
	var payload dto.CreateWorkItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.workItemService.CreateWorkItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Элемент создан", http.StatusCreated)
}

func (c *WorkItemController) UpdateWorkItem(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateWorkItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.workItemService.UpdateWorkItem(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Элемент обновлён", http.StatusOK)
}

func (c *WorkItemController) DeleteWorkItem(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.workItemService.DeleteWorkItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Элемент удалён вместе с поддеревом", http.StatusOK)
}

func (c *WorkItemController) SetStatus(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.DirectStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.workItemService.SetStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Статус изменён", http.StatusOK)
}

// SubmitApproval принимает multipart-форму: JSON в поле 'data' и
// необязательный файл в поле 'attachment'.
func (c *WorkItemController) SubmitApproval(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	dataString := ctx.FormValue("data")
	if dataString == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Поле 'data' с JSON обязательно", apperrors.ErrBadRequest, nil),
			c.logger)
	}

	var payload dto.SubmitApprovalDTO
	if err := json.Unmarshal([]byte(dataString), &payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный JSON в 'data'", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	attachment, err := ctx.FormFile("attachment")
	if err != nil && err != http.ErrMissingFile {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не удалось прочитать вложение", err, nil),
			c.logger)
	}
	if err == http.ErrMissingFile {
		attachment = nil
	}

	updated, err := c.workItemService.SubmitApproval(ctx.Request().Context(), id, payload, attachment)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Запрос на согласование отправлен", http.StatusOK)
}

func (c *WorkItemController) DecideApproval(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.DecideApprovalDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.workItemService.DecideApproval(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Решение зафиксировано", http.StatusOK)
}

func (c *WorkItemController) Delegate(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.DelegateWorkItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.workItemService.Delegate(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Задача делегирована", http.StatusCreated)
}

func (c *WorkItemController) Reorder(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ReorderWorkItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.workItemService.Reorder(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Порядок обновлён", http.StatusOK)
}

func (c *WorkItemController) GetTimeline(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	timeline, err := c.historyService.GetTimeline(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, timeline, "История элемента получена", http.StatusOK)
}

func (c *WorkItemController) Recompute(ctx echo.Context) error {
	applied, err := c.workItemService.RecomputeDerived(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int{"applied": applied}, "Агрегированные статусы пересчитаны", http.StatusOK)
}
