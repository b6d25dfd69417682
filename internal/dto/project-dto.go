package dto

type ProjectDTO struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	UseWorkflow bool         `json:"use_workflow"`
	Owner       ShortUserDTO `json:"owner"`
	StartDate   string       `json:"start_date,omitempty"`
	EndDate     string       `json:"end_date,omitempty"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

// ProjectDetailDTO - проект вместе с деревом активностей и процентом
// завершения.
type ProjectDetailDTO struct {
	ProjectDTO
	Activities        []WorkItemTreeDTO `json:"activities"`
	CompletionPercent int               `json:"completion_percent"`
}

type WorkItemTreeDTO struct {
	WorkItemDTO
	Children []WorkItemTreeDTO `json:"children,omitempty"`
}

type CreateProjectDTO struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description *string `json:"description,omitempty"`
	UseWorkflow bool    `json:"use_workflow"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

type UpdateProjectDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description,omitempty"`
	UseWorkflow *bool   `json:"use_workflow,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}
