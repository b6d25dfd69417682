package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Справочники организационной структуры.

type Unit struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt null.Time `json:"updated_at"`
}

type Team struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	UnitID    null.Uint64 `json:"unit_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt null.Time   `json:"updated_at"`
}

// CustomField - пользовательское поле, прикрепляемое к рабочим элементам.
type CustomField struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	FieldType string    `json:"field_type"` // text | number | date
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt null.Time `json:"updated_at"`
}

type Note struct {
	ID        uint64      `json:"id"`
	UserID    uint64      `json:"user_id"`
	Title     string      `json:"title"`
	Body      null.String `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt null.Time   `json:"updated_at"`
}
