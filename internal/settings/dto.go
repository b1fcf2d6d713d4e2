package settings

import (
	"time"

	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

type Settings struct {
	ThemeMode enums.ThemeMode `json:"theme_mode"`
	Palette   enums.Palette   `json:"palette"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdateInput is a partial update; nil fields keep their stored value, or the
// default when no row exists yet.
type UpdateInput struct {
	ThemeMode *string
	Palette   *string
}

func fromModel(row *models.UserSettings) *Settings {
	return &Settings{ThemeMode: row.ThemeMode, Palette: row.Palette, UpdatedAt: row.UpdatedAt}
}
