package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/repo"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

type badgeRow struct {
	Key         string    `gorm:"column:key"`
	Title       string    `gorm:"column:title"`
	Description *string   `gorm:"column:description"`
	Icon        *string   `gorm:"column:icon"`
	EarnedAt    time.Time `gorm:"column:earned_at"`
}

// Patterns are lowercased and LIKE-escaped by the caller. Prefix matches on
// username rank first; users without a username sort last.
const searchQuery = `
SELECT * FROM users
WHERE LOWER(username) LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\'
ORDER BY CASE WHEN LOWER(username) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END,
         (username IS NULL), username ASC, id ASC
LIMIT ?`

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// InsertIfMissing creates a bare user row for id unless one already exists.
func (r *Repository) InsertIfMissing(ctx context.Context, user *models.User) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user).Error
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies values to the user row and reports whether it exists.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, values map[string]any) (bool, error) {
	result := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) Search(ctx context.Context, contains, prefix string, limit int) ([]models.User, error) {
	var found []models.User
	err := r.DB(ctx).Raw(searchQuery, contains, contains, prefix, limit).Scan(&found).Error
	return found, err
}

// ListBadges returns the user's earned badges, most recent first.
func (r *Repository) ListBadges(ctx context.Context, userID uuid.UUID) ([]badgeRow, error) {
	var rows []badgeRow
	err := r.DB(ctx).
		Table("user_badges AS ub").
		Select("b.key, b.title, b.description, b.icon, ub.earned_at").
		Joins("JOIN badges b ON b.id = ub.badge_id").
		Where("ub.user_id = ?", userID).
		Order("ub.earned_at DESC, b.key ASC").
		Scan(&rows).Error
	return rows, err
}
