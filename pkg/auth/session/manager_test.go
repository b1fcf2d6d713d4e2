package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timerapp/timerapp-backend/pkg/config"
)

type mockStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestManagerRegisterAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()
	userID := uuid.New()
	accessID := NewAccessID()

	require.NoError(t, manager.Register(ctx, accessID, userID))
	assert.Equal(t, userID.String(), store.data["sess:"+accessID])
	assert.Equal(t, time.Hour, store.ttls["sess:"+accessID])

	ok, err := manager.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.True(t, ok)

	owner, err := manager.Owner(ctx, accessID)
	require.NoError(t, err)
	assert.Equal(t, userID, owner)

	require.NoError(t, manager.Revoke(ctx, accessID))
	ok, err = manager.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = manager.Owner(ctx, accessID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerRejectsBlankInput(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()

	assert.Error(t, manager.Register(ctx, " ", uuid.New()))
	assert.Error(t, manager.Register(ctx, "access", uuid.Nil))
	assert.Error(t, manager.Revoke(ctx, ""))
	_, err := manager.HasSession(ctx, "")
	assert.Error(t, err)
}

func TestManagerSurfacesStoreErrors(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection refused")
	manager := newTestManager(store)

	_, err := manager.HasSession(context.Background(), "access")
	assert.EqualError(t, err, "connection refused")
}

func TestNewManagerValidates(t *testing.T) {
	_, err := NewManager(nil, testJWT())
	assert.Error(t, err)
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "timerapp", ExpirationMinutes: 60}
}
