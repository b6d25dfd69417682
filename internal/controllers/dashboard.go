package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/services"
	"project-system/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(dashboardService services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

// GetDashboard отдаёт сводку. ?mine=true сужает выборку до элементов,
// где текущий пользователь назначен ответственным.
func (c *DashboardController) GetDashboard(ctx echo.Context) error {
	onlyMine := ctx.QueryParam("mine") == "true"
	dashboard, err := c.dashboardService.GetDashboard(ctx.Request().Context(), onlyMine)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dashboard, "Сводка сформирована", http.StatusOK)
}
