package coins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/metrics"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	"gorm.io/gorm"
)

const maxReasonLength = 200

// ledgerReferenceIndex is ux_coin_ledger_reference.
var ledgerReferenceIndex = db.UniqueConstraint{
	Name:    "ux_coin_ledger_reference",
	Table:   "coin_ledger",
	Columns: []string{"user_id", "ref_type", "ref_id"},
}

// Service is the coin ledger: idempotent credits, balances and history.
type Service interface {
	Credit(ctx context.Context, input CreditInput) (*CreditResult, error)
	CreditTx(ctx context.Context, tx *gorm.DB, input CreditInput) (*CreditResult, error)
	// Observe records metrics for a credit made through CreditTx once the
	// caller's transaction has committed.
	Observe(result *CreditResult)
	BalanceOf(ctx context.Context, userID uuid.UUID) (int64, error)
	History(ctx context.Context, params HistoryParams) (*HistoryResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.CoinMetrics
	now     func() time.Time
}

// CreditInput describes one credit. RefType and RefID are optional but must be
// given together; when present they make the credit idempotent per user.
type CreditInput struct {
	UserID  uuid.UUID
	Amount  int
	Reason  string
	RefType *enums.CoinReferenceType
	RefID   *uuid.UUID
}

// CreditResult carries the stored entry. Created is false when an entry with
// the same reference already existed and nothing was written.
type CreditResult struct {
	Entry   Entry
	Created bool
}

// Entry is the API shape of a ledger row.
type Entry struct {
	ID        uuid.UUID                `json:"id"`
	UserID    uuid.UUID                `json:"user_id"`
	Delta     int                      `json:"delta"`
	Reason    string                   `json:"reason"`
	RefType   *enums.CoinReferenceType `json:"ref_type,omitempty"`
	RefID     *uuid.UUID               `json:"ref_id,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

type HistoryParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

type HistoryResult struct {
	Items  []Entry `json:"items"`
	Cursor string  `json:"cursor"`
}

// NewService wires the coin ledger. coinMetrics may be nil.
func NewService(repo Repository, tx txRunner, coinMetrics *metrics.CoinMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coin ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		metrics: coinMetrics,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Credit(ctx context.Context, input CreditInput) (*CreditResult, error) {
	if err := validateCredit(input); err != nil {
		return nil, err
	}

	var result *CreditResult
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.CreditTx(ctx, tx, input)
		return err
	}); err != nil {
		return nil, db.WrapError(err, "credit coins")
	}

	s.Observe(result)
	return result, nil
}

func (s *service) CreditTx(ctx context.Context, tx *gorm.DB, input CreditInput) (*CreditResult, error) {
	if err := validateCredit(input); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)
	entry := &models.CoinLedgerEntry{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Delta:     input.Amount,
		Reason:    strings.TrimSpace(input.Reason),
		RefType:   input.RefType,
		RefID:     input.RefID,
		CreatedAt: s.now(),
	}

	created, err := repo.InsertIfAbsent(ctx, entry)
	if err != nil {
		if db.IsUniqueViolation(err, ledgerReferenceIndex) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ledger reference already used")
		}
		return nil, db.WrapError(err, "insert ledger entry")
	}
	if created {
		return &CreditResult{Entry: toEntry(*entry), Created: true}, nil
	}

	existing, err := repo.FindByReference(ctx, input.UserID, *input.RefType, *input.RefID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ledger insert skipped but no entry holds the reference")
		}
		return nil, db.WrapError(err, "load existing ledger entry")
	}
	return &CreditResult{Entry: toEntry(*existing), Created: false}, nil
}

func (s *service) Observe(result *CreditResult) {
	if result == nil {
		return
	}
	s.metrics.ObserveCredit(result.Created, result.Entry.Delta)
}

func (s *service) BalanceOf(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	total, err := s.repo.SumByUser(ctx, userID)
	if err != nil {
		return 0, db.WrapError(err, "sum coin ledger")
	}
	return total, nil
}

func (s *service) History(ctx context.Context, params HistoryParams) (*HistoryResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listEntriesParams{UserID: params.UserID, Limit: params.Limit}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.Cursor = cursor

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list coin ledger")
	}

	items := make([]Entry, 0, len(rows))
	for _, row := range rows {
		items = append(items, toEntry(row))
	}
	result := &HistoryResult{Items: items}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func validateCredit(input CreditInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive").
			WithDetails(map[string]any{"amount": input.Amount})
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}
	if len(reason) > maxReasonLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "reason exceeds %d characters", maxReasonLength)
	}
	if (input.RefType == nil) != (input.RefID == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ref_type and ref_id must be provided together")
	}
	if input.RefType != nil {
		if !input.RefType.IsValid() {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid ref_type %q", *input.RefType)
		}
		if *input.RefID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "ref_id required")
		}
	}
	return nil
}

func toEntry(row models.CoinLedgerEntry) Entry {
	return Entry{
		ID:        row.ID,
		UserID:    row.UserID,
		Delta:     row.Delta,
		Reason:    row.Reason,
		RefType:   row.RefType,
		RefID:     row.RefID,
		CreatedAt: row.CreatedAt,
	}
}
