package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

// Friendship is a directed row keyed by (requester, addressee). Accepting a
// request also writes the mirrored row.
type Friendship struct {
	RequesterUserID uuid.UUID              `gorm:"column:requester_user_id;type:uuid;primaryKey"`
	AddresseeUserID uuid.UUID              `gorm:"column:addressee_user_id;type:uuid;primaryKey"`
	Status          enums.FriendshipStatus `gorm:"column:status;type:text;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at"`
	UpdatedAt       time.Time              `gorm:"column:updated_at"`
}

func (Friendship) TableName() string { return "friendships" }
