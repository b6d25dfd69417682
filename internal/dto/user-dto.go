package dto

type UserDTO struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	UnitID    *uint64 `json:"unit_id,omitempty"`
	TeamID    *uint64 `json:"team_id,omitempty"`
	PhotoURL  string  `json:"photo_url,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

type CreateUserDTO struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	FullName string  `json:"full_name" validate:"required,min=3,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=admin member"`
	UnitID   *uint64 `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
	TeamID   *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateUserDTO struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=3,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
	UnitID   *uint64 `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
	TeamID   *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}
