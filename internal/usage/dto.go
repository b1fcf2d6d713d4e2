package usage

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

type RecordInput struct {
	UserID     uuid.UUID
	AppPackage *string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
}

type Session struct {
	ID         uuid.UUID  `json:"id"`
	AppPackage *string    `json:"app_package"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
	DurationMs *int64     `json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Summary struct {
	Range           enums.UsageRange `json:"range"`
	Since           time.Time        `json:"since"`
	TotalDurationMs int64            `json:"total_duration_ms"`
	SessionCount    int64            `json:"session_count"`
}

type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	Username        *string   `json:"username"`
	DisplayName     *string   `json:"display_name"`
	AvatarURL       *string   `json:"avatar_url"`
	TotalDurationMs int64     `json:"total_duration_ms"`
}

// Leaderboard is cached as JSON, so every field must round-trip.
type Leaderboard struct {
	Range       enums.UsageRange   `json:"range"`
	GeneratedAt time.Time          `json:"generated_at"`
	Items       []LeaderboardEntry `json:"items"`
}

func toSession(row models.UsageSession) Session {
	return Session{
		ID:         row.ID,
		AppPackage: row.AppPackage,
		StartedAt:  row.StartedAt,
		EndedAt:    row.EndedAt,
		DurationMs: row.DurationMs,
		CreatedAt:  row.CreatedAt,
	}
}
