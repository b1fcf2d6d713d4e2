package controllers

import (
	"context"
	"net/http"

	"github.com/timerapp/timerapp-backend/api/responses"
	"github.com/timerapp/timerapp-backend/api/validators"
	"github.com/timerapp/timerapp-backend/internal/users"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

type userSearcher interface {
	Search(ctx context.Context, params users.SearchParams) ([]users.PublicProfile, error)
}

// UserSearch finds users by username or display name. Emails are never
// matched or returned.
func UserSearch(svc userSearcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r, svc != nil, logg); !ok {
			return
		}

		limit, err := validators.ParseQueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.Search(r.Context(), users.SearchParams{Query: r.URL.Query().Get("q"), Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": found})
	}
}
