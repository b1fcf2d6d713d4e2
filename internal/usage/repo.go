package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/repo"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists usage sessions and aggregates them.
type Repository struct {
	repo.Base
}

type summaryRow struct {
	TotalDurationMs int64 `gorm:"column:total_duration_ms"`
	SessionCount    int64 `gorm:"column:session_count"`
}

type leaderboardRow struct {
	UserID          uuid.UUID `gorm:"column:user_id"`
	Username        *string   `gorm:"column:username"`
	DisplayName     *string   `gorm:"column:display_name"`
	AvatarURL       *string   `gorm:"column:avatar_url"`
	TotalDurationMs int64     `gorm:"column:total_duration_ms"`
}

// leaderboardFilter narrows the board. A nil UserIDs ranks every user.
type leaderboardFilter struct {
	Since   time.Time
	UserIDs []uuid.UUID
	Limit   int
}

const leaderboardSelect = `
SELECT u.id AS user_id, u.username, u.display_name, u.avatar_url,
       COALESCE(t.total_duration_ms, 0) AS total_duration_ms
FROM users u
LEFT JOIN (
  SELECT user_id, SUM(COALESCE(duration_ms, 0)) AS total_duration_ms
  FROM usage_sessions
  WHERE started_at >= ?
  GROUP BY user_id
) t ON t.user_id = u.id
`

// users without a username sort after named ones on ties
const leaderboardOrder = `
ORDER BY total_duration_ms DESC, (u.username IS NULL), u.username ASC, u.id ASC
LIMIT ?`

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Insert(ctx context.Context, session *models.UsageSession) error {
	return r.DB(ctx).Create(session).Error
}

// ListByUser returns the user's sessions, most recently started first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.UsageSession, error) {
	var sessions []models.UsageSession
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *Repository) Summary(ctx context.Context, userID uuid.UUID, since time.Time) (summaryRow, error) {
	var row summaryRow
	err := r.DB(ctx).
		Model(&models.UsageSession{}).
		Select("COALESCE(SUM(duration_ms), 0) AS total_duration_ms, COUNT(*) AS session_count").
		Where("user_id = ? AND started_at >= ?", userID, since).
		Scan(&row).Error
	return row, err
}

func (r *Repository) Leaderboard(ctx context.Context, filter leaderboardFilter) ([]leaderboardRow, error) {
	query := leaderboardSelect
	args := []any{filter.Since}
	if filter.UserIDs != nil {
		query += "WHERE u.id IN ?"
		args = append(args, filter.UserIDs)
	}
	args = append(args, filter.Limit)

	var rows []leaderboardRow
	err := r.DB(ctx).Raw(query+leaderboardOrder, args...).Scan(&rows).Error
	return rows, err
}
