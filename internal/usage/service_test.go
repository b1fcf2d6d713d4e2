package usage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timerapp/timerapp-backend/pkg/db/dbtest"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/logger"
	redisclient "github.com/timerapp/timerapp-backend/pkg/redis"
	"gorm.io/gorm"
)

type fakeCache struct {
	entries map[string]string
	getErr  error
	sets    int
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.entries[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.sets++
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	default:
		f.entries[key] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeCache) LeaderboardKey(rangeName string, limit int) string {
	return fmt.Sprintf("timerapp:leaderboard:%s:%d", rangeName, limit)
}

func newTestService(t *testing.T, cache redisclient.LeaderboardCache) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Cache:    cache,
		CacheTTL: time.Minute,
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	user := &models.User{ID: id, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if username != "" {
		user.Username = &username
	}
	require.NoError(t, conn.Create(user).Error)
	return id
}

func ms(v int64) *int64 { return &v }

func TestRecordDerivesDurationFromEnd(t *testing.T) {
	svc, _ := newTestService(t, nil)
	start := time.Now().UTC().Add(-time.Hour)
	end := start.Add(90 * time.Second)
	pkg := "  com.example.reader "

	session, err := svc.Record(context.Background(), RecordInput{
		UserID:     uuid.New(),
		AppPackage: &pkg,
		StartedAt:  start,
		EndedAt:    &end,
	})
	require.NoError(t, err)
	require.NotNil(t, session.DurationMs)
	assert.EqualValues(t, 90000, *session.DurationMs)
	require.NotNil(t, session.AppPackage)
	assert.Equal(t, "com.example.reader", *session.AppPackage)
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	start := time.Now().UTC()
	before := start.Add(-time.Minute)
	user := uuid.New()

	cases := map[string]RecordInput{
		"missing start":     {UserID: user},
		"end before start":  {UserID: user, StartedAt: start, EndedAt: &before},
		"negative duration": {UserID: user, StartedAt: start, DurationMs: ms(-1)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestListAndSummary(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	user := uuid.New()
	now := time.Now().UTC()

	for _, in := range []RecordInput{
		{UserID: user, StartedAt: now.Add(-2 * time.Hour), DurationMs: ms(1000)},
		{UserID: user, StartedAt: now.Add(-1 * time.Hour), DurationMs: ms(2000)},
		{UserID: user, StartedAt: now.Add(-72 * time.Hour), DurationMs: ms(5000)},
		{UserID: uuid.New(), StartedAt: now.Add(-time.Hour), DurationMs: ms(9000)},
	} {
		_, err := svc.Record(ctx, in)
		require.NoError(t, err)
	}

	sessions, err := svc.List(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.EqualValues(t, 2000, *sessions[0].DurationMs)

	day, err := svc.Summary(ctx, user, "")
	require.NoError(t, err)
	assert.Equal(t, enums.UsageRangeDay, day.Range)
	assert.EqualValues(t, 3000, day.TotalDurationMs)
	assert.EqualValues(t, 2, day.SessionCount)

	week, err := svc.Summary(ctx, user, "week")
	require.NoError(t, err)
	assert.EqualValues(t, 8000, week.TotalDurationMs)
	assert.EqualValues(t, 3, week.SessionCount)

	_, err = svc.Summary(ctx, user, "month")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLeaderboardOrdersAndCaches(t *testing.T) {
	cache := &fakeCache{}
	svc, conn := newTestService(t, cache)
	ctx := context.Background()
	now := time.Now().UTC()

	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	anon := seedUser(t, conn, "")
	idle := seedUser(t, conn, "idle")

	for _, in := range []RecordInput{
		{UserID: alice, StartedAt: now.Add(-time.Hour), DurationMs: ms(3000)},
		{UserID: bob, StartedAt: now.Add(-time.Hour), DurationMs: ms(5000)},
		{UserID: anon, StartedAt: now.Add(-time.Hour), DurationMs: ms(3000)},
	} {
		_, err := svc.Record(ctx, in)
		require.NoError(t, err)
	}

	board, err := svc.Leaderboard(ctx, "day", 10)
	require.NoError(t, err)
	require.Len(t, board.Items, 4)
	assert.Equal(t, bob, board.Items[0].UserID)
	assert.Equal(t, alice, board.Items[1].UserID)
	assert.Equal(t, anon, board.Items[2].UserID)
	assert.Equal(t, idle, board.Items[3].UserID)
	assert.Zero(t, board.Items[3].TotalDurationMs)
	assert.Equal(t, 1, board.Items[0].Rank)
	assert.Equal(t, 1, cache.sets)

	_, err = svc.Record(ctx, RecordInput{UserID: idle, StartedAt: now, DurationMs: ms(99000)})
	require.NoError(t, err)

	cached, err := svc.Leaderboard(ctx, "day", 10)
	require.NoError(t, err)
	assert.Equal(t, bob, cached.Items[0].UserID, "served from cache")
	assert.Equal(t, 1, cache.sets)
}

func TestLeaderboardFallsThroughOnCacheError(t *testing.T) {
	cache := &fakeCache{getErr: errors.New("redis timeout")}
	svc, conn := newTestService(t, cache)
	seedUser(t, conn, "solo")

	board, err := svc.Leaderboard(context.Background(), "week", 0)
	require.NoError(t, err)
	assert.Len(t, board.Items, 1)
	assert.Contains(t, cache.entries, "timerapp:leaderboard:week:50")
}

type fakeFriends struct {
	ids map[uuid.UUID][]uuid.UUID
	err error
}

func (f fakeFriends) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.ids[userID], f.err
}

func TestFriendsLeaderboardRanksCallerAndFriends(t *testing.T) {
	cache := &fakeCache{}
	conn := dbtest.Open(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	stranger := seedUser(t, conn, "stranger")

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Friends:  fakeFriends{ids: map[uuid.UUID][]uuid.UUID{alice: {bob}}},
		Cache:    cache,
		CacheTTL: time.Minute,
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC()
	for _, in := range []RecordInput{
		{UserID: alice, StartedAt: now.Add(-time.Hour), DurationMs: ms(1000)},
		{UserID: bob, StartedAt: now.Add(-time.Hour), DurationMs: ms(2000)},
		{UserID: stranger, StartedAt: now.Add(-time.Hour), DurationMs: ms(9000)},
	} {
		_, err := svc.Record(ctx, in)
		require.NoError(t, err)
	}

	board, err := svc.FriendsLeaderboard(ctx, alice, "day", 10)
	require.NoError(t, err)
	require.Len(t, board.Items, 2)
	assert.Equal(t, bob, board.Items[0].UserID)
	assert.Equal(t, alice, board.Items[1].UserID)
	assert.Equal(t, 2, board.Items[1].Rank)
	assert.Zero(t, cache.sets)

	// a user without friends still sees themselves
	lonely, err := svc.FriendsLeaderboard(ctx, stranger, "week", 0)
	require.NoError(t, err)
	require.Len(t, lonely.Items, 1)
	assert.Equal(t, stranger, lonely.Items[0].UserID)
}

func TestFriendsLeaderboardErrors(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Friends: fakeFriends{err: errors.New("connection reset")},
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.FriendsLeaderboard(ctx, uuid.New(), "day", 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = svc.FriendsLeaderboard(ctx, uuid.New(), "month", 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.FriendsLeaderboard(ctx, uuid.Nil, "day", 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.Nop()})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(dbtest.Open(t))})
	assert.Error(t, err)
}
