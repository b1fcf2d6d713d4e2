package controllers

import (
	"net/http"

	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/settings"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

type updateSettingsRequest struct {
	ThemeMode *string `json:"theme_mode" validate:"omitempty,oneof=system light dark"`
	Palette   *string `json:"palette" validate:"omitempty,oneof=a b c d"`
}

// SettingsGet returns null data until the caller saves settings once.
func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		current, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func SettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var req updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Update(r.Context(), userID, settings.UpdateInput{ThemeMode: req.ThemeMode, Palette: req.Palette})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}
