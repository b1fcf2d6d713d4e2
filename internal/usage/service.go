package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	redisclient "github.com/timerapp/timerapp-backend/pkg/redis"
)

const maxAppPackageLength = 255

// Service records device usage and derives summaries and the global leaderboard.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*Session, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]Session, error)
	Summary(ctx context.Context, userID uuid.UUID, rangeName string) (*Summary, error)
	Leaderboard(ctx context.Context, rangeName string, limit int) (*Leaderboard, error)
	// FriendsLeaderboard ranks the caller and their accepted friends. It is
	// never cached.
	FriendsLeaderboard(ctx context.Context, userID uuid.UUID, rangeName string, limit int) (*Leaderboard, error)
}

// FriendLister resolves a user's accepted friends.
type FriendLister interface {
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type usageRepository interface {
	Insert(ctx context.Context, session *models.UsageSession) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.UsageSession, error)
	Summary(ctx context.Context, userID uuid.UUID, since time.Time) (summaryRow, error)
	Leaderboard(ctx context.Context, filter leaderboardFilter) ([]leaderboardRow, error)
}

// ServiceParams bundles the usage service dependencies. Cache is optional;
// without Friends the friends board holds only the caller.
type ServiceParams struct {
	Repo     usageRepository
	Friends  FriendLister
	Cache    redisclient.LeaderboardCache
	CacheTTL time.Duration
	Limits   pagination.Limits
	Logger   *logger.Logger
}

type service struct {
	repo     usageRepository
	friends  FriendLister
	cache    redisclient.LeaderboardCache
	cacheTTL time.Duration
	limits   pagination.Limits
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("usage repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	limits := params.Limits
	if limits.Default <= 0 || limits.Max <= 0 {
		limits = pagination.DefaultLimits
	}
	return &service{
		repo:     params.Repo,
		friends:  params.Friends,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		limits:   limits,
		logg:     params.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*Session, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if input.StartedAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "started_at is required").
			WithDetails(map[string]any{"field": "started_at"})
	}
	startedAt := input.StartedAt.UTC()

	var endedAt *time.Time
	if input.EndedAt != nil {
		v := input.EndedAt.UTC()
		if v.Before(startedAt) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ended_at must not be before started_at").
				WithDetails(map[string]any{"field": "ended_at"})
		}
		endedAt = &v
	}

	duration := input.DurationMs
	if duration != nil && *duration < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration_ms must be >= 0").
			WithDetails(map[string]any{"field": "duration_ms"})
	}
	if duration == nil && endedAt != nil {
		ms := endedAt.Sub(startedAt).Milliseconds()
		duration = &ms
	}

	var appPackage *string
	if input.AppPackage != nil {
		trimmed := strings.TrimSpace(*input.AppPackage)
		if utf8.RuneCountInString(trimmed) > maxAppPackageLength {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "app_package exceeds %d characters", maxAppPackageLength)
		}
		if trimmed != "" {
			appPackage = &trimmed
		}
	}

	row := &models.UsageSession{
		ID:         uuid.New(),
		UserID:     input.UserID,
		AppPackage: appPackage,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		DurationMs: duration,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, db.WrapError(err, "insert usage session")
	}
	session := toSession(*row)
	return &session, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, limit int) ([]Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	rows, err := s.repo.ListByUser(ctx, userID, s.limits.Normalize(limit))
	if err != nil {
		return nil, db.WrapError(err, "list usage sessions")
	}
	sessions := make([]Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, toSession(row))
	}
	return sessions, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID, rangeName string) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	usageRange, err := parseRange(rangeName)
	if err != nil {
		return nil, err
	}

	since := usageRange.Since(s.now())
	row, err := s.repo.Summary(ctx, userID, since)
	if err != nil {
		return nil, db.WrapError(err, "summarize usage")
	}
	return &Summary{
		Range:           usageRange,
		Since:           since,
		TotalDurationMs: row.TotalDurationMs,
		SessionCount:    row.SessionCount,
	}, nil
}

func (s *service) Leaderboard(ctx context.Context, rangeName string, limit int) (*Leaderboard, error) {
	usageRange, err := parseRange(rangeName)
	if err != nil {
		return nil, err
	}
	limit = s.limits.Normalize(limit)

	key := ""
	if s.cache != nil {
		key = s.cache.LeaderboardKey(string(usageRange), limit)
		if cached, ok := s.readCache(ctx, key); ok {
			return cached, nil
		}
	}

	now := s.now()
	rows, err := s.repo.Leaderboard(ctx, leaderboardFilter{Since: usageRange.Since(now), Limit: limit})
	if err != nil {
		return nil, db.WrapError(err, "load leaderboard")
	}
	board := newLeaderboard(usageRange, now, rows)

	if s.cache != nil && s.cacheTTL > 0 {
		s.writeCache(ctx, key, board)
	}
	return board, nil
}

func (s *service) FriendsLeaderboard(ctx context.Context, userID uuid.UUID, rangeName string, limit int) (*Leaderboard, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	usageRange, err := parseRange(rangeName)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{userID}
	if s.friends != nil {
		friendIDs, err := s.friends.FriendIDs(ctx, userID)
		if err != nil {
			return nil, db.WrapError(err, "load friends")
		}
		ids = append(ids, friendIDs...)
	}

	now := s.now()
	rows, err := s.repo.Leaderboard(ctx, leaderboardFilter{
		Since:   usageRange.Since(now),
		UserIDs: ids,
		Limit:   s.limits.Normalize(limit),
	})
	if err != nil {
		return nil, db.WrapError(err, "load friends leaderboard")
	}
	return newLeaderboard(usageRange, now, rows), nil
}

func newLeaderboard(usageRange enums.UsageRange, now time.Time, rows []leaderboardRow) *Leaderboard {
	board := &Leaderboard{Range: usageRange, GeneratedAt: now, Items: make([]LeaderboardEntry, 0, len(rows))}
	for i, row := range rows {
		board.Items = append(board.Items, LeaderboardEntry{
			Rank:            i + 1,
			UserID:          row.UserID,
			Username:        row.Username,
			DisplayName:     row.DisplayName,
			AvatarURL:       row.AvatarURL,
			TotalDurationMs: row.TotalDurationMs,
		})
	}
	return board
}

func (s *service) readCache(ctx context.Context, key string) (*Leaderboard, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisclient.Nil) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "leaderboard cache read failed")
		}
		return nil, false
	}
	var board Leaderboard
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "leaderboard cache entry unreadable")
		return nil, false
	}
	return &board, true
}

func (s *service) writeCache(ctx context.Context, key string, board *Leaderboard) {
	payload, err := json.Marshal(board)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "leaderboard encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "leaderboard cache write failed")
	}
}

func parseRange(value string) (enums.UsageRange, error) {
	usageRange, err := enums.ParseUsageRange(strings.TrimSpace(value))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "range must be day or week").
			WithDetails(map[string]any{"field": "range"})
	}
	return usageRange, nil
}
