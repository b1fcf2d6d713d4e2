package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
)

const (
	pgUniqueViolation       = "23505"
	pgIntegrityClass        = "23"
	sqliteUniqueFailed      = "UNIQUE constraint failed: "
	sqliteConstraintFailed  = "constraint failed"
	pgDuplicateKeyViolation = "duplicate key value"
)

// UniqueConstraint identifies a unique index the way each driver reports it:
// Postgres by constraint name, SQLite by the qualified column list. The zero
// value matches any unique violation.
type UniqueConstraint struct {
	Name    string
	Table   string
	Columns []string
}

func (c UniqueConstraint) any() bool {
	return c.Name == "" && len(c.Columns) == 0
}

// sqliteColumns renders the column list as SQLite prints it, e.g.
// "coin_ledger.user_id, coin_ledger.ref_type".
func (c UniqueConstraint) sqliteColumns() string {
	qualified := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		qualified = append(qualified, c.Table+"."+col)
	}
	return strings.Join(qualified, ", ")
}

// IsUniqueViolation reports whether err is a unique violation on c.
func IsUniqueViolation(err error, c UniqueConstraint) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return c.any() || (c.Name != "" && pgErr.ConstraintName == c.Name)
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if !strings.HasPrefix(msg, sqliteUniqueFailed) {
			continue
		}
		if c.any() {
			return true
		}
		return len(c.Columns) > 0 && strings.TrimSpace(strings.TrimPrefix(msg, sqliteUniqueFailed)) == c.sqliteColumns()
	}

	msg := err.Error()
	if !strings.Contains(msg, pgDuplicateKeyViolation) {
		return false
	}
	return c.any() || (c.Name != "" && strings.Contains(msg, c.Name))
}

// IsConstraintViolation reports whether the store rejected a statement on an
// integrity constraint: SQLSTATE class 23 on Postgres, any "constraint failed"
// on SQLite.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityClass)
	}
	msg := err.Error()
	return strings.Contains(msg, sqliteConstraintFailed) || strings.Contains(msg, pgDuplicateKeyViolation)
}

// WrapError classifies a raw store error. Constraint rejections become
// CodeConflict, which callers must not retry unchanged; anything else means
// the store was unreachable or failed mid-call and becomes CodeDependency.
// Typed errors pass through untouched.
func WrapError(err error, message string) *pkgerrors.Error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if IsConstraintViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
