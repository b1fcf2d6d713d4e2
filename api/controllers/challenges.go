package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timerapp/timerapp-backend/api/middleware"
	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/challenges"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

const challengeIDParam = "challengeId"

type createChallengeRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CoinReward  int        `json:"coin_reward" validate:"gte=0"`
}

// ChallengeList returns challenges the caller created or joined.
func ChallengeList(svc challenges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		limit, err := validators.ParseQueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := challenges.ListParams{
			UserID: userID,
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.ChallengeStatus(raw)
			params.Status = &status
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ChallengeCreate creates an active challenge and joins the caller to it.
func ChallengeCreate(svc challenges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var req createChallengeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		challenge, err := svc.Create(r.Context(), challenges.CreateInput{
			CreatorUserID: userID,
			Title:         req.Title,
			Description:   req.Description,
			StartsAt:      req.StartsAt,
			EndsAt:        req.EndsAt,
			CoinReward:    req.CoinReward,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, challenge)
	}
}

func ChallengeGet(svc challenges.Service, logg *logger.Logger) http.HandlerFunc {
	return challengeAction(svc, logg, func(ctx context.Context, challengeID, userID uuid.UUID) (any, error) {
		return svc.Get(ctx, challengeID, userID)
	})
}

func ChallengeJoin(svc challenges.Service, logg *logger.Logger) http.HandlerFunc {
	return challengeAction(svc, logg, func(ctx context.Context, challengeID, userID uuid.UUID) (any, error) {
		return svc.Join(ctx, challengeID, userID)
	})
}

func ChallengeForfeit(svc challenges.Service, logg *logger.Logger) http.HandlerFunc {
	return challengeAction(svc, logg, func(ctx context.Context, challengeID, userID uuid.UUID) (any, error) {
		return svc.Forfeit(ctx, challengeID, userID)
	})
}

// ChallengeComplete marks the caller's participation completed and pays the
// reward at most once.
func ChallengeComplete(svc challenges.Service, logg *logger.Logger) http.HandlerFunc {
	return challengeAction(svc, logg, func(ctx context.Context, challengeID, userID uuid.UUID) (any, error) {
		return svc.Complete(ctx, challengeID, userID)
	})
}

type challengeOp func(ctx context.Context, challengeID, userID uuid.UUID) (any, error)

func challengeAction(svc challenges.Service, logg *logger.Logger, op challengeOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		challengeID, err := validators.ParseUUIDParam(r, challengeIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithChallengeID(ctx, challengeID.String())
		}

		result, err := op(ctx, challengeID, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, available bool, logg *logger.Logger) (uuid.UUID, bool) {
	if !available {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "service unavailable"))
		return uuid.Nil, false
	}
	userID := middleware.UserUUIDFromContext(r.Context())
	if userID == uuid.Nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
		return uuid.Nil, false
	}
	return userID, true
}
