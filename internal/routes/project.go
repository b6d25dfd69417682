package routes

import (
	"github.com/labstack/echo/v4"

	"project-system/internal/controllers"
)

func runProjectRouter(secureGroup *echo.Group, projectCtrl *controllers.ProjectController) {
	secureGroup.GET("/projects", projectCtrl.GetProjects)
	secureGroup.GET("/project/:id", projectCtrl.FindProject)
	secureGroup.POST("/project", projectCtrl.CreateProject)
	secureGroup.PUT("/project/:id", projectCtrl.UpdateProject)
	secureGroup.DELETE("/project/:id", projectCtrl.DeleteProject)
}
