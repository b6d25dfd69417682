package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/services"
	"project-system/pkg/utils"
)

type CustomFieldController struct {
	customFieldService services.CustomFieldServiceInterface
	logger             *zap.Logger
}

func NewCustomFieldController(customFieldService services.CustomFieldServiceInterface, logger *zap.Logger) *CustomFieldController {
	return &CustomFieldController{customFieldService: customFieldService, logger: logger}
}

func (c *CustomFieldController) GetCustomFields(ctx echo.Context) error {
	limit, offset := utils.ParseLimitOffset(ctx.QueryParam("limit"), ctx.QueryParam("offset"))
	fields, total, err := c.customFieldService.GetCustomFields(ctx.Request().Context(), limit, offset)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, fields, "Список полей получен", http.StatusOK, total)
}

func (c *CustomFieldController) FindCustomField(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	field, err := c.customFieldService.FindCustomField(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, field, "Поле найдено", http.StatusOK)
}

func (c *CustomFieldController) CreateCustomField(ctx echo.Context) error {
	var payload dto.CreateCustomFieldDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.customFieldService.CreateCustomField(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Поле создано", http.StatusCreated)
}

func (c *CustomFieldController) UpdateCustomField(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateCustomFieldDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.customFieldService.UpdateCustomField(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Поле обновлено", http.StatusOK)
}

func (c *CustomFieldController) DeleteCustomField(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.customFieldService.DeleteCustomField(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Поле удалено", http.StatusOK)
}
