package routes

import (
	"github.com/labstack/echo/v4"

	"project-system/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController) {
	secureGroup.GET("/report/work-items", reportCtrl.GetWorkItemReport)
}
