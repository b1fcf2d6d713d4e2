package challenges

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/coins"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/metrics"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	completionReason     = "Challenge completed"
)

// Service owns the challenge lifecycle and participant transitions.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Challenge, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, challengeID, userID uuid.UUID) (*Challenge, error)
	Join(ctx context.Context, challengeID, userID uuid.UUID) (*Membership, error)
	Forfeit(ctx context.Context, challengeID, userID uuid.UUID) (*Membership, error)
	// Complete marks the caller completed and credits the reward at most once
	// per (user, challenge). Retries succeed without paying again.
	Complete(ctx context.Context, challengeID, userID uuid.UUID) (*Completion, error)
}

// Ledger is the slice of the coin ledger that completion needs.
type Ledger interface {
	CreditTx(ctx context.Context, tx *gorm.DB, input coins.CreditInput) (*coins.CreditResult, error)
	Observe(result *coins.CreditResult)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	ledger  Ledger
	tx      txRunner
	metrics *metrics.ChallengeMetrics
	limits  pagination.Limits
	now     func() time.Time
}

// NewService wires the challenge registry. challengeMetrics may be nil and a
// zero limits value falls back to the package defaults.
func NewService(repo Repository, ledger Ledger, tx txRunner, challengeMetrics *metrics.ChallengeMetrics, limits pagination.Limits) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("challenges repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("coin ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if limits.Default <= 0 || limits.Max <= 0 {
		limits = pagination.DefaultLimits
	}
	return &service{
		repo:    repo,
		ledger:  ledger,
		tx:      tx,
		metrics: challengeMetrics,
		limits:  limits,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Challenge, error) {
	if input.CreatorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator required")
	}
	title, description, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	challenge := &models.Challenge{
		ID:            uuid.New(),
		CreatorUserID: input.CreatorUserID,
		Title:         title,
		Description:   description,
		Status:        enums.ChallengeStatusActive,
		StartsAt:      utcPtr(input.StartsAt),
		EndsAt:        utcPtr(input.EndsAt),
		CoinReward:    input.CoinReward,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateChallenge(ctx, challenge); err != nil {
			return db.WrapError(err, "insert challenge")
		}
		if err := repo.UpsertJoined(ctx, challenge.ID, input.CreatorUserID, now); err != nil {
			return db.WrapError(err, "join creator")
		}
		return nil
	}); err != nil {
		return nil, asServiceError(err, "create challenge")
	}

	s.metrics.IncTransition(metrics.TransitionCreate)

	joined := enums.ParticipantStatusJoined
	view := toChallenge(challengeRow{Challenge: *challenge, ParticipantCount: 1, MyStatus: &joined})
	return &view, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *params.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.repo.ListForUser(ctx, listChallengesParams{
		UserID: params.UserID,
		Status: params.Status,
		Limit:  s.limits.Normalize(params.Limit),
		Cursor: cursor,
	})
	if err != nil {
		return nil, db.WrapError(err, "list challenges")
	}

	items := make([]Challenge, 0, len(rows))
	for _, row := range rows {
		items = append(items, toChallenge(row))
	}
	result := &ListResult{Items: items}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, challengeID, userID uuid.UUID) (*Challenge, error) {
	if err := requireIDs(challengeID, userID); err != nil {
		return nil, err
	}
	row, err := s.repo.GetForUser(ctx, challengeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "challenge not found")
		}
		return nil, db.WrapError(err, "load challenge")
	}
	view := toChallenge(*row)
	return &view, nil
}

func (s *service) Join(ctx context.Context, challengeID, userID uuid.UUID) (*Membership, error) {
	if err := requireIDs(challengeID, userID); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := findChallenge(ctx, repo, challengeID); err != nil {
			return err
		}
		if err := repo.UpsertJoined(ctx, challengeID, userID, s.now()); err != nil {
			return db.WrapError(err, "upsert participant")
		}
		return nil
	}); err != nil {
		return nil, asServiceError(err, "join challenge")
	}

	s.metrics.IncTransition(metrics.TransitionJoin)
	return &Membership{ChallengeID: challengeID, Status: enums.ParticipantStatusJoined}, nil
}

func (s *service) Forfeit(ctx context.Context, challengeID, userID uuid.UUID) (*Membership, error) {
	if err := requireIDs(challengeID, userID); err != nil {
		return nil, err
	}

	updated, err := s.repo.MarkForfeited(ctx, challengeID, userID, s.now())
	if err != nil {
		return nil, db.WrapError(err, "forfeit participant")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "not a participant")
	}

	s.metrics.IncTransition(metrics.TransitionForfeit)
	return &Membership{ChallengeID: challengeID, Status: enums.ParticipantStatusForfeited}, nil
}

func (s *service) Complete(ctx context.Context, challengeID, userID uuid.UUID) (*Completion, error) {
	if err := requireIDs(challengeID, userID); err != nil {
		return nil, err
	}

	var (
		reward int
		credit *coins.CreditResult
	)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		challenge, err := findChallenge(ctx, repo, challengeID)
		if err != nil {
			return err
		}
		if challenge.Status != enums.ChallengeStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "challenge is not active").
				WithDetails(map[string]any{"status": challenge.Status})
		}

		updated, err := repo.MarkCompleted(ctx, challengeID, userID, s.now())
		if err != nil {
			return db.WrapError(err, "complete participant")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeNotFound, "not a participant")
		}

		reward = challenge.CoinReward
		if reward <= 0 {
			return nil
		}
		refType := enums.CoinReferenceChallengeComplete
		refID := challengeID
		credit, err = s.ledger.CreditTx(ctx, tx, coins.CreditInput{
			UserID:  userID,
			Amount:  reward,
			Reason:  completionReason,
			RefType: &refType,
			RefID:   &refID,
		})
		return err
	}); err != nil {
		return nil, asServiceError(err, "complete challenge")
	}

	s.metrics.IncTransition(metrics.TransitionComplete)
	s.ledger.Observe(credit)

	return &Completion{
		ChallengeID: challengeID,
		Status:      enums.ParticipantStatusCompleted,
		CoinReward:  reward,
		Credited:    credit != nil && credit.Created,
	}, nil
}

func findChallenge(ctx context.Context, repo Repository, challengeID uuid.UUID) (*models.Challenge, error) {
	challenge, err := repo.FindChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "challenge not found")
		}
		return nil, db.WrapError(err, "load challenge")
	}
	return challenge, nil
}

func requireIDs(challengeID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if challengeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "challenge id required")
	}
	return nil
}

func validateCreate(input CreateInput) (string, *string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]any{"field": "title"})
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", nil, pkgerrors.Newf(pkgerrors.CodeValidation, "title exceeds %d characters", maxTitleLength).
			WithDetails(map[string]any{"field": "title"})
	}
	if input.CoinReward < 0 {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "coin_reward must be >= 0").
			WithDetails(map[string]any{"field": "coin_reward", "value": input.CoinReward})
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must not be before starts_at").
			WithDetails(map[string]any{"field": "ends_at"})
	}

	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if utf8.RuneCountInString(trimmed) > maxDescriptionLength {
			return "", nil, pkgerrors.Newf(pkgerrors.CodeValidation, "description exceeds %d characters", maxDescriptionLength).
				WithDetails(map[string]any{"field": "description"})
		}
		if trimmed != "" {
			description = &trimmed
		}
	}
	return title, description, nil
}

// asServiceError keeps typed errors raised inside a transaction and
// classifies anything else as a store rejection or a store failure.
func asServiceError(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return db.WrapError(err, op)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
