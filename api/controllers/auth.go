package controllers

import (
	"net/http"

	"github.com/timerapp/timerapp-backend/api/middleware"
	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/auth"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

// AuthDevLogin signs a caller in by email or username and issues a bearer token.
func AuthDevLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.DevLoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.DevLogin(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-Timerapp-Token", resp.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthLogout revokes the session behind the presented access token.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
