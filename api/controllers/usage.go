package controllers

import (
	"net/http"
	"time"

	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/usage"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

type recordUsageRequest struct {
	AppPackage *string    `json:"app_package" validate:"omitempty,max=255"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
	DurationMs *int64     `json:"duration_ms" validate:"omitempty,gte=0"`
}

// UsageRecord stores one foreground session reported by the device.
func UsageRecord(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var req recordUsageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Record(r.Context(), usage.RecordInput{
			UserID:     userID,
			AppPackage: req.AppPackage,
			StartedAt:  req.StartedAt,
			EndedAt:    req.EndedAt,
			DurationMs: req.DurationMs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

func UsageList(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
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

		sessions, err := svc.List(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": sessions})
	}
}

func UsageSummary(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		summary, err := svc.Summary(r.Context(), userID, r.URL.Query().Get("range"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// GlobalLeaderboard ranks users by total foreground time in the range.
func GlobalLeaderboard(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "usage service unavailable"))
			return
		}

		limit, err := validators.ParseQueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		board, err := svc.Leaderboard(r.Context(), r.URL.Query().Get("range"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}

// FriendsLeaderboard ranks the caller and their accepted friends.
func FriendsLeaderboard(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
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

		board, err := svc.FriendsLeaderboard(r.Context(), userID, r.URL.Query().Get("range"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}
