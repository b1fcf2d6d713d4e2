package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

// UserSettings holds per-user client preferences, one row per user.
type UserSettings struct {
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	ThemeMode enums.ThemeMode `gorm:"column:theme_mode;type:text;not null"`
	Palette   enums.Palette   `gorm:"column:palette;type:text;not null"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }
