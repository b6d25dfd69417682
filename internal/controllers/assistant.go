package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/services"
	"project-system/pkg/utils"
)

type AssistantController struct {
	chatService     services.ChatServiceInterface
	analysisService services.AnalysisServiceInterface
	logger          *zap.Logger
}

func NewAssistantController(
	chatService services.ChatServiceInterface,
	analysisService services.AnalysisServiceInterface,
	logger *zap.Logger,
) *AssistantController {
	return &AssistantController{
		chatService:     chatService,
		analysisService: analysisService,
		logger:          logger,
	}
}

func (c *AssistantController) Chat(ctx echo.Context) error {
	var payload dto.ChatRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	response, err := c.chatService.Chat(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, response, "Ответ ассистента получен", http.StatusOK)
}

// AnalyzeMyTasks строит разбор задач текущего пользователя.
func (c *AssistantController) AnalyzeMyTasks(ctx echo.Context) error {
	analysis, err := c.analysisService.AnalyzeMyTasks(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, analysis, "Анализ задач выполнен", http.StatusOK)
}
