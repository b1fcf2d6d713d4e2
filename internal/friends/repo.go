package friends

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists directed friendship rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	UpsertRequest(ctx context.Context, requester, addressee uuid.UUID, now time.Time) error
	Accept(ctx context.Context, requester, addressee uuid.UUID, now time.Time) (bool, error)
	UpsertAccepted(ctx context.Context, requester, addressee uuid.UUID, now time.Time) error
	DeleteRequest(ctx context.Context, requester, addressee uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]pendingRow, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]pendingRow, error)
}

type repository struct {
	db *gorm.DB
}

type pendingRow struct {
	UserID      uuid.UUID `gorm:"column:user_id"`
	Username    *string   `gorm:"column:username"`
	DisplayName *string   `gorm:"column:display_name"`
	AvatarURL   *string   `gorm:"column:avatar_url"`
	IsPrivate   bool      `gorm:"column:is_private"`
	RequestedAt time.Time `gorm:"column:requested_at"`
}

type friendIDRow struct {
	UserID uuid.UUID `gorm:"column:user_id"`
}

// Either direction of an accepted pair counts; UNION drops the mirror.
const friendIDsQuery = `
SELECT addressee_user_id AS user_id FROM friendships WHERE requester_user_id = ? AND status = ?
UNION
SELECT requester_user_id AS user_id FROM friendships WHERE addressee_user_id = ? AND status = ?`

const pendingSelect = `u.id AS user_id, u.username, u.display_name, u.avatar_url, u.is_private, f.created_at AS requested_at`

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("((requester_user_id = ? AND addressee_user_id = ?) OR (requester_user_id = ? AND addressee_user_id = ?)) AND status = ?",
			a, b, b, a, enums.FriendshipStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// UpsertRequest writes a pending row from requester to addressee. Repeating a
// request only refreshes updated_at.
func (r *repository) UpsertRequest(ctx context.Context, requester, addressee uuid.UUID, now time.Time) error {
	return r.upsert(ctx, requester, addressee, enums.FriendshipStatusRequested, now)
}

func (r *repository) UpsertAccepted(ctx context.Context, requester, addressee uuid.UUID, now time.Time) error {
	return r.upsert(ctx, requester, addressee, enums.FriendshipStatusAccepted, now)
}

func (r *repository) upsert(ctx context.Context, requester, addressee uuid.UUID, status enums.FriendshipStatus, now time.Time) error {
	row := &models.Friendship{
		RequesterUserID: requester,
		AddresseeUserID: addressee,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requester_user_id"}, {Name: "addressee_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(row).Error
}

// Accept flips a pending request to accepted and reports whether one existed.
func (r *repository) Accept(ctx context.Context, requester, addressee uuid.UUID, now time.Time) (bool, error) {
	result := r.pending(ctx, requester, addressee).
		Updates(map[string]any{"status": enums.FriendshipStatusAccepted, "updated_at": now})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) DeleteRequest(ctx context.Context, requester, addressee uuid.UUID) (bool, error) {
	result := r.pending(ctx, requester, addressee).Delete(&models.Friendship{})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) pending(ctx context.Context, requester, addressee uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("requester_user_id = ? AND addressee_user_id = ? AND status = ?",
			requester, addressee, enums.FriendshipStatusRequested)
}

// ListFriends returns accepted friends ordered by username, unnamed users last.
func (r *repository) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var found []models.User
	err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM users WHERE id IN (`+friendIDsQuery+`)
ORDER BY (username IS NULL), username ASC, id ASC`,
			userID, enums.FriendshipStatusAccepted, userID, enums.FriendshipStatusAccepted).
		Scan(&found).Error
	return found, err
}

func (r *repository) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var rows []friendIDRow
	err := r.db.WithContext(ctx).
		Raw(friendIDsQuery, userID, enums.FriendshipStatusAccepted, userID, enums.FriendshipStatusAccepted).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}

// ListIncoming returns requests addressed to userID, newest first.
func (r *repository) ListIncoming(ctx context.Context, userID uuid.UUID) ([]pendingRow, error) {
	return r.listPending(ctx, "f.requester_user_id", "f.addressee_user_id", userID)
}

// ListOutgoing returns requests userID sent that are still pending.
func (r *repository) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]pendingRow, error) {
	return r.listPending(ctx, "f.addressee_user_id", "f.requester_user_id", userID)
}

func (r *repository) listPending(ctx context.Context, otherColumn, selfColumn string, userID uuid.UUID) ([]pendingRow, error) {
	var rows []pendingRow
	err := r.db.WithContext(ctx).
		Table("friendships AS f").
		Select(pendingSelect).
		Joins("JOIN users u ON u.id = "+otherColumn).
		Where(selfColumn+" = ? AND f.status = ?", userID, enums.FriendshipStatusRequested).
		Order("f.created_at DESC, u.id ASC").
		Scan(&rows).Error
	return rows, err
}
