package dto

type WorkItemDTO struct {
	ID    uint64 `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`

	Priority  string `json:"priority"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	Status           string `json:"status"`
	RequestedStatus  string `json:"requested_status,omitempty"`
	UnderlyingStatus string `json:"underlying_status,omitempty"`
	ApprovalStatus   string `json:"approval_status,omitempty"`
	UseWorkflow      bool   `json:"use_workflow"`

	Responsible ShortUserDTO `json:"responsible"`
	Approver    ShortUserDTO `json:"approver"`
	Owner       ShortUserDTO `json:"owner"`

	ProjectID *uint64 `json:"project_id,omitempty"`
	ParentID  *uint64 `json:"parent_id,omitempty"`

	KanbanOrder int `json:"kanban_order"`
	Version     int `json:"version"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateWorkItemDTO struct {
	Kind  string `json:"kind" validate:"required,oneof=activity action"`
	Title string `json:"title" validate:"required,min=3,max=255"`

	Priority  string  `json:"priority" validate:"omitempty,priority_value"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	UseWorkflow bool `json:"use_workflow"`

	ResponsibleID uint64 `json:"responsible_id" validate:"required,gt=0"`
	ApproverID    uint64 `json:"approver_id" validate:"required,gt=0"`

	ProjectID *uint64 `json:"project_id,omitempty" validate:"omitempty,gt=0"`
	ParentID  *uint64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateWorkItemDTO struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Priority      *string `json:"priority,omitempty" validate:"omitempty,priority_value"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	ResponsibleID *uint64 `json:"responsible_id,omitempty" validate:"omitempty,gt=0"`
	ApproverID    *uint64 `json:"approver_id,omitempty" validate:"omitempty,gt=0"`
	UseWorkflow   *bool   `json:"use_workflow,omitempty"`
	KanbanOrder   *int    `json:"kanban_order,omitempty"`

	// Ожидаемая версия записи; несовпадение - конфликт, а не перезапись.
	Version int `json:"version" validate:"required,gt=0"`
}

// DirectStatusDTO - прямая смена статуса (use_workflow == false).
type DirectStatusDTO struct {
	Status  string `json:"status" validate:"required,steady_status"`
	Version int    `json:"version" validate:"required,gt=0"`
}

// SubmitApprovalDTO - запрос на смену статуса через согласование.
// Файл-вложение приходит отдельной частью multipart-формы.
type SubmitApprovalDTO struct {
	RequestedStatus string  `json:"requested_status" validate:"required,steady_status"`
	Comment         *string `json:"comment,omitempty" validate:"omitempty,min=1"`
	Version         int     `json:"version" validate:"required,gt=0"`
}

type DecideApprovalDTO struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Comment  *string `json:"comment,omitempty" validate:"omitempty,min=1"`
	Version  int     `json:"version" validate:"required,gt=0"`
}

// DelegateWorkItemDTO - делегирование: создаёт дочерний элемент того же
// вида с новым ответственным.
type DelegateWorkItemDTO struct {
	Title         string  `json:"title" validate:"required,min=3,max=255"`
	ResponsibleID uint64  `json:"responsible_id" validate:"required,gt=0"`
	ApproverID    uint64  `json:"approver_id" validate:"required,gt=0"`
	Priority      string  `json:"priority" validate:"omitempty,priority_value"`
	EndDate       *string `json:"end_date,omitempty"`
	UseWorkflow   bool    `json:"use_workflow"`
}

type ReorderWorkItemDTO struct {
	KanbanOrder int `json:"kanban_order" validate:"gte=0"`
	Version     int `json:"version" validate:"required,gt=0"`
}
