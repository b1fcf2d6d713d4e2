// Package dbtest opens isolated in-memory SQLite databases migrated with the
// application's SQLite migration set, for repository and service tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/migrate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a GORM handle on a fresh named in-memory database. The pool is
// pinned to one connection so every statement sees the same database; code
// under test must not use the outer handle while a transaction is open.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	goose.SetLogger(goose.NopLogger())
	require.NoError(t, migrate.Up(context.Background(), sqlDB, migrate.DialectSQLite))
	return conn
}

// NewClient wraps Open in a db.Client.
func NewClient(t testing.TB) *db.Client {
	t.Helper()
	return db.NewFromConn(Open(t))
}
