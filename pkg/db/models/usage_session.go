package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageSession is one stretch of foreground device usage reported by the app.
type UsageSession struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	AppPackage *string    `gorm:"column:app_package;type:text"`
	StartedAt  time.Time  `gorm:"column:started_at;not null"`
	EndedAt    *time.Time `gorm:"column:ended_at"`
	DurationMs *int64     `gorm:"column:duration_ms"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (UsageSession) TableName() string { return "usage_sessions" }
