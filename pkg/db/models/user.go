package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity and its public profile.
type User struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email       *string   `gorm:"column:email;type:text;uniqueIndex"`
	Username    *string   `gorm:"column:username;type:text;uniqueIndex"`
	DisplayName *string   `gorm:"column:display_name;type:text"`
	AvatarURL   *string   `gorm:"column:avatar_url;type:text"`
	Bio         *string   `gorm:"column:bio;type:text"`
	IsPrivate   bool      `gorm:"column:is_private;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
