package user

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusBlocked
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public is the user shape returned next to a token.
// swagger:model PublicUser
type Public struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email}
}

// RegisterRequest payload of POST /api/register.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name"     example:"Ada Lovelace"`
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"s3cret!"`
}

// LoginRequest payload of POST /api/login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"s3cret!"`
}

// AuthResponse is returned by register and login.
// swagger:model AuthResponse
type AuthResponse struct {
	Token string `json:"token"`
	User  Public `json:"user"`
}

// UpdateStatusRequest payload of PUT /api/admin/users/:id/status.
// swagger:model UpdateUserStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"blocked"`
}
