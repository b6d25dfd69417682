package routes

import (
	"github.com/labstack/echo/v4"

	"project-system/internal/controllers"
)

func runWorkItemRouter(secureGroup *echo.Group, workItemCtrl *controllers.WorkItemController) {
	secureGroup.GET("/work-items", workItemCtrl.GetWorkItems)
	secureGroup.GET("/work-item/:id", workItemCtrl.FindWorkItem)
	secureGroup.POST("/work-item", workItemCtrl.CreateWorkItem)
	secureGroup.PUT("/work-item/:id", workItemCtrl.UpdateWorkItem)
	secureGroup.DELETE("/work-item/:id", workItemCtrl.DeleteWorkItem)

	// Жизненный цикл: прямые смены статуса и контур согласования.
	secureGroup.PATCH("/work-item/:id/status", workItemCtrl.SetStatus)
	secureGroup.POST("/work-item/:id/submit", workItemCtrl.SubmitApproval)
	secureGroup.POST("/work-item/:id/decide", workItemCtrl.DecideApproval)
	secureGroup.POST("/work-item/:id/delegate", workItemCtrl.Delegate)
	secureGroup.PATCH("/work-item/:id/reorder", workItemCtrl.Reorder)

	secureGroup.GET("/work-item/:id/history", workItemCtrl.GetTimeline)
	secureGroup.POST("/work-items/recompute", workItemCtrl.Recompute)
}
