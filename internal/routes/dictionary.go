package routes

import (
	"github.com/labstack/echo/v4"

	"project-system/internal/controllers"
)

// runDictionaryRouter собирает справочники и личные заметки.
func runDictionaryRouter(
	secureGroup *echo.Group,
	unitCtrl *controllers.UnitController,
	teamCtrl *controllers.TeamController,
	customFieldCtrl *controllers.CustomFieldController,
	noteCtrl *controllers.NoteController,
) {
	secureGroup.GET("/units", unitCtrl.GetUnits)
	secureGroup.GET("/unit/:id", unitCtrl.FindUnit)
	secureGroup.POST("/unit", unitCtrl.CreateUnit)
	secureGroup.PUT("/unit/:id", unitCtrl.UpdateUnit)
	secureGroup.DELETE("/unit/:id", unitCtrl.DeleteUnit)

	secureGroup.GET("/teams", teamCtrl.GetTeams)
	secureGroup.GET("/team/:id", teamCtrl.FindTeam)
	secureGroup.POST("/team", teamCtrl.CreateTeam)
	secureGroup.PUT("/team/:id", teamCtrl.UpdateTeam)
	secureGroup.DELETE("/team/:id", teamCtrl.DeleteTeam)

	secureGroup.GET("/custom-fields", customFieldCtrl.GetCustomFields)
	secureGroup.GET("/custom-field/:id", customFieldCtrl.FindCustomField)
	secureGroup.POST("/custom-field", customFieldCtrl.CreateCustomField)
	secureGroup.PUT("/custom-field/:id", customFieldCtrl.UpdateCustomField)
	secureGroup.DELETE("/custom-field/:id", customFieldCtrl.DeleteCustomField)

	secureGroup.GET("/notes", noteCtrl.GetNotes)
	secureGroup.GET("/note/:id", noteCtrl.FindNote)
	secureGroup.POST("/note", noteCtrl.CreateNote)
	secureGroup.PUT("/note/:id", noteCtrl.UpdateNote)
	secureGroup.DELETE("/note/:id", noteCtrl.DeleteNote)
}
