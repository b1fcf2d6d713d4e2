package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
)

// UserDTO is the transport shape of the caller's own profile.
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       *string   `json:"email"`
	Username    *string   `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicProfile is what other users may see. It never carries the email.
type PublicProfile struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    *string   `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	IsPrivate   bool      `json:"is_private"`
}

type Badge struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

// DevSignInInput identifies a user for development sign-in. At least one of
// Email or Username is required.
type DevSignInInput struct {
	Email       string
	Username    string
	DisplayName string
}

// ProfileUpdate is a partial update: nil fields keep their stored value and
// an empty string clears an optional field.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	IsPrivate   *bool
}

type SearchParams struct {
	Query string
	Limit int
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		IsPrivate:   u.IsPrivate,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToPublicProfile(u models.User) PublicProfile {
	return PublicProfile{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsPrivate:   u.IsPrivate,
	}
}
