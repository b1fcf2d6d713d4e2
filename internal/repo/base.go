package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the connection a domain repository issues its queries on.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Bind returns a copy issuing queries on tx. A nil tx keeps the current handle.
func (b Base) Bind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}
