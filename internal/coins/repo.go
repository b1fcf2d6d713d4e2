package coins

import (
	"context"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists ledger entries. It is append-only: there is no update or delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertIfAbsent(ctx context.Context, entry *models.CoinLedgerEntry) (bool, error)
	FindByReference(ctx context.Context, userID uuid.UUID, refType enums.CoinReferenceType, refID uuid.UUID) (*models.CoinLedgerEntry, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	List(ctx context.Context, params listEntriesParams) ([]models.CoinLedgerEntry, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

type listEntriesParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

// referenceConflict targets ux_coin_ledger_reference.
var referenceConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "ref_type"}, {Name: "ref_id"}},
	DoNothing: true,
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// InsertIfAbsent inserts entry and reports whether a row was written. Entries
// carrying a reference are inserted with ON CONFLICT DO NOTHING, so a repeated
// reference yields false instead of an error and leaves the transaction usable.
func (r *repository) InsertIfAbsent(ctx context.Context, entry *models.CoinLedgerEntry) (bool, error) {
	query := r.db.WithContext(ctx)
	if entry.RefType != nil && entry.RefID != nil {
		query = query.Clauses(referenceConflict)
	}
	result := query.Create(entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindByReference(ctx context.Context, userID uuid.UUID, refType enums.CoinReferenceType, refID uuid.UUID) (*models.CoinLedgerEntry, error) {
	var entry models.CoinLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND ref_type = ? AND ref_id = ?", userID, refType, refID).
		Take(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.CoinLedgerEntry{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) List(ctx context.Context, params listEntriesParams) ([]models.CoinLedgerEntry, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.CoinLedgerEntry{}).Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var entries []models.CoinLedgerEntry
	if err := query.Order("created_at DESC, id DESC").Limit(normalized + 1).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		last := entries[normalized-1]
		return entries[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return entries, nil, nil
}
