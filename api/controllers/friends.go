package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/friends"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

type friendRequestRequest struct {
	ToUserID   *uuid.UUID `json:"to_user_id"`
	ToUsername string     `json:"to_username" validate:"omitempty,max=32"`
}

type friendRespondRequest struct {
	RequesterUserID uuid.UUID `json:"requester_user_id" validate:"required"`
	Action          string    `json:"action" validate:"required,oneof=accept decline"`
}

func FriendsList(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": list})
	}
}

// FriendRequest answers 201 when a request was stored and 200 when the pair
// are already friends.
func FriendRequest(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var req friendRequestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Request(r.Context(), friends.RequestInput{
			UserID:     userID,
			ToUserID:   req.ToUserID,
			ToUsername: req.ToUsername,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if result.Status == friends.ResultRequested {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

func FriendRequests(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		pending, err := svc.Requests(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pending)
	}
}

func FriendRespond(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var req friendRespondRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Respond(r.Context(), friends.RespondInput{
			UserID:          userID,
			RequesterUserID: req.RequesterUserID,
			Action:          req.Action,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
