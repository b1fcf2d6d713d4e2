package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/users"
)

// DevLoginRequest identifies the caller for development sign-in.
type DevLoginRequest struct {
	Email       string `json:"email" validate:"omitempty,email,max=320"`
	Username    string `json:"username" validate:"omitempty,min=2,max=64"`
	DisplayName string `json:"display_name" validate:"omitempty,max=120"`
}

// LoginResponse contains the bearer token issued after sign-in.
type LoginResponse struct {
	UserID      uuid.UUID      `json:"user_id"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Created     bool           `json:"created"`
	User        *users.UserDTO `json:"user"`
}
