package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

// Challenge is a focus challenge. Rows are never deleted.
type Challenge struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	CreatorUserID uuid.UUID             `gorm:"column:creator_user_id;type:uuid;not null"`
	Title         string                `gorm:"column:title;type:text;not null"`
	Description   *string               `gorm:"column:description;type:text"`
	Status        enums.ChallengeStatus `gorm:"column:status;type:text;not null"`
	StartsAt      *time.Time            `gorm:"column:starts_at"`
	EndsAt        *time.Time            `gorm:"column:ends_at"`
	CoinReward    int                   `gorm:"column:coin_reward;not null;default:0"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Challenge) TableName() string { return "challenges" }
