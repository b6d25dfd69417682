package dto

type UnitDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateUnitDTO struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

type UpdateUnitDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
}

type TeamDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	UnitID    *uint64 `json:"unit_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

type CreateTeamDTO struct {
	Name   string  `json:"name" validate:"required,min=2,max=255"`
	UnitID *uint64 `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateTeamDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	UnitID *uint64 `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
}

type CustomFieldDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	FieldType string `json:"field_type"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateCustomFieldDTO struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	FieldType string `json:"field_type" validate:"required,oneof=text number date"`
}

type UpdateCustomFieldDTO struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	FieldType *string `json:"field_type,omitempty" validate:"omitempty,oneof=text number date"`
}

type NoteDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateNoteDTO struct {
	Title string  `json:"title" validate:"required,min=1,max=255"`
	Body  *string `json:"body,omitempty"`
}

type UpdateNoteDTO struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Body  *string `json:"body,omitempty"`
}
