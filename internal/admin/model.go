// Package admin holds back-office accounts and the admin login.
package admin

import "time"

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest payload of POST /api/admin/login.
// swagger:model AdminLoginRequest
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

// Public is the admin shape returned next to a token.
// swagger:model PublicAdmin
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse is returned by a successful admin login.
// swagger:model AdminLoginResponse
type LoginResponse struct {
	Token string `json:"token"`
	Admin Public `json:"admin"`
}
