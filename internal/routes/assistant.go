package routes

import (
	"github.com/labstack/echo/v4"

	"project-system/internal/controllers"
)

func runAssistantRouter(secureGroup *echo.Group, assistantCtrl *controllers.AssistantController) {
	secureGroup.POST("/assistant/chat", assistantCtrl.Chat)
	secureGroup.POST("/assistant/analyze", assistantCtrl.AnalyzeMyTasks)
}
