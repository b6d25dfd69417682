package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Виды рабочих элементов: активность живёт внутри проекта, действие -
// самостоятельный элемент вне проектов. Модель у обоих одна.
const (
	KindActivity = "activity"
	KindAction   = "action"
)

type WorkItem struct {
	ID    uint64 `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`

	Priority  string      `json:"priority"`
	StartDate null.String `json:"start_date"`
	EndDate   null.String `json:"end_date"`

	// Статус и поля согласования. Их согласованность охраняет
	// internal/workflow: вне ожидания согласования requested/underlying
	// всегда пусты.
	Status           string      `json:"status"`
	RequestedStatus  null.String `json:"requested_status"`
	UnderlyingStatus null.String `json:"underlying_status"`
	ApprovalStatus   null.String `json:"approval_status"`
	UseWorkflow      bool        `json:"use_workflow"`

	ResponsibleID uint64 `json:"responsible_id"`
	ApproverID    uint64 `json:"approver_id"`
	OwnerID       uint64 `json:"owner_id"`

	ProjectID null.Uint64 `json:"project_id"`
	ParentID  null.Uint64 `json:"parent_id"`

	KanbanOrder int `json:"kanban_order"`

	// Версия записи для оптимистической блокировки: обновление со
	// старой версией завершается конфликтом, а не молчаливой перезаписью.
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt null.Time `json:"updated_at"`
}
