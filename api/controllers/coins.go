package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/timerapp/timerapp-backend/api/middleware"
	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/coins"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

type coinHistoryResponse struct {
	Balance int64         `json:"balance"`
	Items   []coins.Entry `json:"items"`
	Cursor  string        `json:"cursor"`
}

// CoinHistory lists the caller's ledger entries newest first, plus the balance.
func CoinHistory(svc coins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coin service unavailable"))
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		limit, err := validators.ParseQueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), coins.HistoryParams{
			UserID: userID,
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		balance, err := svc.BalanceOf(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coinHistoryResponse{
			Balance: balance,
			Items:   history.Items,
			Cursor:  history.Cursor,
		})
	}
}
