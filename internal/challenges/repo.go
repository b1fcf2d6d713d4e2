package challenges

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists challenges and their participants.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateChallenge(ctx context.Context, challenge *models.Challenge) error
	FindChallenge(ctx context.Context, challengeID uuid.UUID) (*models.Challenge, error)
	UpsertJoined(ctx context.Context, challengeID, userID uuid.UUID, now time.Time) error
	MarkForfeited(ctx context.Context, challengeID, userID uuid.UUID, now time.Time) (bool, error)
	MarkCompleted(ctx context.Context, challengeID, userID uuid.UUID, now time.Time) (bool, error)
	ListForUser(ctx context.Context, params listChallengesParams) ([]challengeRow, *pagination.Cursor, error)
	GetForUser(ctx context.Context, challengeID, userID uuid.UUID) (*challengeRow, error)
}

type repository struct {
	db *gorm.DB
}

type listChallengesParams struct {
	UserID uuid.UUID
	Status *enums.ChallengeStatus
	Limit  int
	Cursor *pagination.Cursor
}

// challengeRow is a challenge annotated from the caller's point of view.
type challengeRow struct {
	models.Challenge
	ParticipantCount int64                    `gorm:"column:participant_count"`
	MyStatus         *enums.ParticipantStatus `gorm:"column:my_status"`
}

const annotatedSelect = `c.*,
  (SELECT COUNT(*) FROM challenge_participants cp WHERE cp.challenge_id = c.id) AS participant_count,
  (SELECT cp.status FROM challenge_participants cp WHERE cp.challenge_id = c.id AND cp.user_id = ?) AS my_status`

// NewRepository returns a challenges repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *repository) FindChallenge(ctx context.Context, challengeID uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).Where("id = ?", challengeID).Take(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// UpsertJoined inserts a joined participant or resets an existing row to
// joined. joined_at keeps its first value.
func (r *repository) UpsertJoined(ctx context.Context, challengeID, userID uuid.UUID, now time.Time) error {
	participant := &models.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
		Status:      enums.ParticipantStatusJoined,
		JoinedAt:    now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "challenge_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":    enums.ParticipantStatusJoined,
				"joined_at": gorm.Expr("COALESCE(challenge_participants.joined_at, excluded.joined_at)"),
			}),
		}).
		Create(participant).Error
}

func (r *repository) MarkForfeited(ctx context.Context, challengeID, userID uuid.UUID, now time.Time) (bool, error) {
	return r.setStatus(ctx, challengeID, userID, map[string]any{
		"status":       enums.ParticipantStatusForfeited,
		"forfeited_at": now,
	})
}

func (r *repository) MarkCompleted(ctx context.Context, challengeID, userID uuid.UUID, now time.Time) (bool, error) {
	return r.setStatus(ctx, challengeID, userID, map[string]any{
		"status":       enums.ParticipantStatusCompleted,
		"completed_at": now,
	})
}

func (r *repository) setStatus(ctx context.Context, challengeID, userID uuid.UUID, values map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) annotated(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("challenges AS c").
		Select(annotatedSelect, userID)
}

// ListForUser returns challenges the user created or participates in, newest first.
func (r *repository) ListForUser(ctx context.Context, params listChallengesParams) ([]challengeRow, *pagination.Cursor, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = pagination.NormalizeLimit(limit)
	}

	query := r.annotated(ctx, params.UserID).
		Where("(c.creator_user_id = ? OR EXISTS (SELECT 1 FROM challenge_participants me WHERE me.challenge_id = c.id AND me.user_id = ?))",
			params.UserID, params.UserID)
	if params.Status != nil {
		query = query.Where("c.status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(c.created_at, c.id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []challengeRow
	if err := query.Order("c.created_at DESC, c.id DESC").Limit(limit + 1).Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > limit {
		last := rows[limit-1]
		return rows[:limit], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

func (r *repository) GetForUser(ctx context.Context, challengeID, userID uuid.UUID) (*challengeRow, error) {
	var rows []challengeRow
	if err := r.annotated(ctx, userID).Where("c.id = ?", challengeID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
