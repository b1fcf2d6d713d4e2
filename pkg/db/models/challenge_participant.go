package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

// ChallengeParticipant is keyed by (challenge_id, user_id); at most one row per pair.
type ChallengeParticipant struct {
	ChallengeID uuid.UUID               `gorm:"column:challenge_id;type:uuid;primaryKey"`
	UserID      uuid.UUID               `gorm:"column:user_id;type:uuid;primaryKey"`
	Status      enums.ParticipantStatus `gorm:"column:status;type:text;not null"`
	JoinedAt    time.Time               `gorm:"column:joined_at;not null"`
	CompletedAt *time.Time              `gorm:"column:completed_at"`
	ForfeitedAt *time.Time              `gorm:"column:forfeited_at"`
}

func (ChallengeParticipant) TableName() string { return "challenge_participants" }
