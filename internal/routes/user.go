package routes

import (
	"github.com/labstack/echo/v4"

	"project-system/internal/controllers"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController) {
	secureGroup.GET("/users", userCtrl.GetUsers)
	secureGroup.GET("/user/:id", userCtrl.FindUser)
	secureGroup.POST("/user", userCtrl.CreateUser)
	secureGroup.PUT("/user/:id", userCtrl.UpdateUser)
	secureGroup.DELETE("/user/:id", userCtrl.DeleteUser)
	secureGroup.POST("/user/:id/photo", userCtrl.UploadPhoto)
}
