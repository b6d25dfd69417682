package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/services"
	"project-system/pkg/utils"
)

type UnitController struct {
	unitService services.UnitServiceInterface
	logger      *zap.Logger
}

func NewUnitController(unitService services.UnitServiceInterface, logger *zap.Logger) *UnitController {
	return &UnitController{unitService: unitService, logger: logger}
}

func (c *UnitController) GetUnits(ctx echo.Context) error {
	limit, offset := utils.ParseLimitOffset(ctx.QueryParam("limit"), ctx.QueryParam("offset"))
	units, total, err := c.unitService.GetUnits(ctx.Request().Context(), limit, offset)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, units, "Список подразделений получен", http.StatusOK, total)
}

func (c *UnitController) FindUnit(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	unit, err := c.unitService.FindUnit(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, unit, "Подразделение найдено", http.StatusOK)
}

func (c *UnitController) CreateUnit(ctx echo.Context) error {
	var payload dto.CreateUnitDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.unitService.CreateUnit(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Подразделение создано", http.StatusCreated)
}

func (c *UnitController) UpdateUnit(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateUnitDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.unitService.UpdateUnit(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Подразделение обновлено", http.StatusOK)
}

func (c *UnitController) DeleteUnit(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.unitService.DeleteUnit(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Подразделение удалено", http.StatusOK)
}
