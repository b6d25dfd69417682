package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/services"
	"project-system/pkg/utils"
)

// NoteController работает только с заметками текущего пользователя:
// принадлежность проверяется на уровне сервиса и репозитория.
type NoteController struct {
	noteService services.NoteServiceInterface
	logger      *zap.Logger
}

func NewNoteController(noteService services.NoteServiceInterface, logger *zap.Logger) *NoteController {
	return &NoteController{noteService: noteService, logger: logger}
}

func (c *NoteController) GetNotes(ctx echo.Context) error {
	limit, offset := utils.ParseLimitOffset(ctx.QueryParam("limit"), ctx.QueryParam("offset"))
	notes, total, err := c.noteService.GetNotes(ctx.Request().Context(), limit, offset)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, notes, "Список заметок получен", http.StatusOK, total)
}

func (c *NoteController) FindNote(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	note, err := c.noteService.FindNote(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, note, "Заметка найдена", http.StatusOK)
}

func (c *NoteController) CreateNote(ctx echo.Context) error {
	var payload dto.CreateNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.noteService.CreateNote(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Заметка создана", http.StatusCreated)
}

func (c *NoteController) UpdateNote(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.noteService.UpdateNote(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Заметка обновлена", http.StatusOK)
}

func (c *NoteController) DeleteNote(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.noteService.DeleteNote(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Заметка удалена", http.StatusOK)
}
