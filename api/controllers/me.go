package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/timerapp/timerapp-backend/api/middleware"
	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/users"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

type userReader interface {
	Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	Badges(ctx context.Context, id uuid.UUID) ([]users.Badge, error)
}

type profileUpdater interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, input users.ProfileUpdate) (*users.UserDTO, error)
}

type balanceReader interface {
	BalanceOf(ctx context.Context, userID uuid.UUID) (int64, error)
}

type meResponse struct {
	User   *users.UserDTO `json:"user"`
	Coins  int64          `json:"coins"`
	Badges []users.Badge  `json:"badges"`
}

type updateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,max=32"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=64"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,max=2048"`
	Bio         *string `json:"bio" validate:"omitempty,max=280"`
	IsPrivate   *bool   `json:"is_private"`
}

// Me returns the caller's profile with their coin balance and badges.
func Me(userSvc userReader, coinSvc balanceReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userSvc == nil || coinSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile services unavailable"))
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		user, err := userSvc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		balance, err := coinSvc.BalanceOf(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		badges, err := userSvc.Badges(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, meResponse{User: user, Coins: balance, Badges: badges})
	}
}

// MeUpdate applies a partial profile update. An empty string clears an
// optional field.
func MeUpdate(svc profileUpdater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.AvatarURL != nil && *req.AvatarURL != "" {
			if err := validators.ValidateURL("avatar_url", *req.AvatarURL); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		user, err := svc.UpdateProfile(r.Context(), userID, users.ProfileUpdate{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
			Bio:         req.Bio,
			IsPrivate:   req.IsPrivate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
