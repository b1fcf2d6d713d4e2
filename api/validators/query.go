package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
)

// ParseQueryLimit reads ?limit. Zero means "use the default"; values above the
// maximum are clamped by the service.
func ParseQueryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer").WithDetails(map[string]any{"field": "limit"})
	}
	return value, nil
}

// ParseUUIDParam reads a chi URL parameter as a UUID.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid %s", name).WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
