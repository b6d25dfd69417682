package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Роли пользователей. Права администратора - это роль на записи
// пользователя, а не сравнение с захардкоженным логином.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID           uint64      `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	UnitID       null.Uint64 `json:"unit_id"`
	TeamID       null.Uint64 `json:"team_id"`
	PhotoURL     null.String `json:"photo_url"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    null.Time   `json:"updated_at"`
}
