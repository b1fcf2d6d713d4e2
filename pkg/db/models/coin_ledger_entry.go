package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/enums"
)

// CoinLedgerEntry is an append-only coin movement. A user's balance is the sum of Delta.
type CoinLedgerEntry struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null"`
	Delta     int                      `gorm:"column:delta;not null"`
	Reason    string                   `gorm:"column:reason;type:text;not null"`
	RefType   *enums.CoinReferenceType `gorm:"column:ref_type;type:text"`
	RefID     *uuid.UUID               `gorm:"column:ref_id;type:uuid"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}

func (CoinLedgerEntry) TableName() string { return "coin_ledger" }
