package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Project struct {
	ID          uint64      `json:"id"`
	Title       string      `json:"title"`
	Description null.String `json:"description"`
	// Агрегированный статус: чистая функция от статусов активностей,
	// пользователь его не задаёт.
	Status      string      `json:"status"`
	UseWorkflow bool        `json:"use_workflow"`
	OwnerID     uint64      `json:"owner_id"`
	StartDate   null.String `json:"start_date"`
	EndDate     null.String `json:"end_date"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   null.Time   `json:"updated_at"`
}
