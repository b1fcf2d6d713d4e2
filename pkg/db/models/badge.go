package models

import (
	"time"

	"github.com/google/uuid"
)

type Badge struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Key         string    `gorm:"column:key;type:text;not null;uniqueIndex"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Description *string   `gorm:"column:description;type:text"`
	Icon        *string   `gorm:"column:icon;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Badge) TableName() string { return "badges" }

// UserBadge records when a user earned a badge.
type UserBadge struct {
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	BadgeID  uuid.UUID `gorm:"column:badge_id;type:uuid;primaryKey"`
	EarnedAt time.Time `gorm:"column:earned_at;not null"`
}

func (UserBadge) TableName() string { return "user_badges" }
