package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/api/responses"
	pkgAuth "github.com/timerapp/timerapp-backend/pkg/auth"
	"github.com/timerapp/timerapp-backend/pkg/auth/session"
	"github.com/timerapp/timerapp-backend/pkg/config"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

// UserEnsurer creates the user row for a verified identity when missing.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, id uuid.UUID) error
}

// Auth validates a bearer token and seeds the request context with the caller.
// Nothing downstream runs until the identity and its session are confirmed.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, ensurer UserEnsurer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithAccessID(ctx, claims.ID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			if ensurer != nil {
				if err := ensurer.EnsureUser(ctx, claims.UserID); err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
