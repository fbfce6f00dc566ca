package api

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash,omitempty"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1" binding:"required"`
	Password string `json:"password" validate:"required,min=1" binding:"required"`
}

type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// LoginResponse carries a nil Result when the credentials do not match.
type LoginResponse struct {
	Result *LoginResult `json:"result"`
}
