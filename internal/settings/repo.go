package settings

import (
	"context"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/repo"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Find(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	var row models.UserSettings
	if err := r.DB(ctx).Where("user_id = ?", userID).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert inserts row, or overwrites only columns when the user already has
// settings.
func (r *Repository) Upsert(ctx context.Context, row *models.UserSettings, columns []string) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(row).Error
}
