package dto

import "github.com/spec-kit/complaint-service/internal/domain"

// RegisterRequest payload for new accounts. AdminSecret is required only when
// requesting the admin role.
type RegisterRequest struct {
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role,omitempty"`
	AdminSecret string      `json:"adminSecret,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	UserID  string      `json:"userId"`
	Role    domain.Role `json:"role"`
}

// MeResponse response for token re-validation.
type MeResponse struct {
	Message string      `json:"message"`
	UserID  string      `json:"userId"`
	Role    domain.Role `json:"role"`
}
