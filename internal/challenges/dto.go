package challenges

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

type CreateInput struct {
	CreatorUserID uuid.UUID
	Title         string
	Description   *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	CoinReward    int
}

type ListParams struct {
	UserID uuid.UUID
	Status *enums.ChallengeStatus
	Limit  int
	Cursor string
}

type ListResult struct {
	Items  []Challenge `json:"items"`
	Cursor string      `json:"cursor"`
}

// Challenge is the API shape of a challenge as seen by one caller.
type Challenge struct {
	ID               uuid.UUID                `json:"id"`
	CreatorUserID    uuid.UUID                `json:"creator_user_id"`
	Title            string                   `json:"title"`
	Description      *string                  `json:"description"`
	Status           enums.ChallengeStatus    `json:"status"`
	StartsAt         *time.Time               `json:"starts_at"`
	EndsAt           *time.Time               `json:"ends_at"`
	CoinReward       int                      `json:"coin_reward"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	ParticipantCount int64                    `json:"participant_count"`
	MyStatus         *enums.ParticipantStatus `json:"my_status"`
}

type Membership struct {
	ChallengeID uuid.UUID               `json:"challenge_id"`
	Status      enums.ParticipantStatus `json:"status"`
}

type Completion struct {
	ChallengeID uuid.UUID               `json:"challenge_id"`
	Status      enums.ParticipantStatus `json:"status"`
	CoinReward  int                     `json:"coin_reward"`
	// Credited is false when the reward was zero or had already been paid.
	Credited bool `json:"credited"`
}

func toChallenge(row challengeRow) Challenge {
	return Challenge{
		ID:               row.ID,
		CreatorUserID:    row.CreatorUserID,
		Title:            row.Title,
		Description:      row.Description,
		Status:           row.Status,
		StartsAt:         row.StartsAt,
		EndsAt:           row.EndsAt,
		CoinReward:       row.CoinReward,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		ParticipantCount: row.ParticipantCount,
		MyStatus:         row.MyStatus,
	}
}
