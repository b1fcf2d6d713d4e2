package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/timerapp/timerapp-backend/pkg/config"
	redisclient "github.com/timerapp/timerapp-backend/pkg/redis"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Manager tracks which access tokens are still live. A token is accepted only
// while its jti has a session entry, so deleting the entry revokes the token.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis. Sessions live as
// long as the access token they belong to.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Register records a session for accessID owned by userID.
func (m *Manager) Register(ctx context.Context, accessID string, userID uuid.UUID) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	return m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), userID.String(), m.ttl)
}

// Owner returns the user that owns the session.
func (m *Manager) Owner(ctx context.Context, accessID string) (uuid.UUID, error) {
	if strings.TrimSpace(accessID) == "" {
		return uuid.Nil, ErrSessionNotFound
	}
	stored, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, err
	}
	owner, err := uuid.Parse(stored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return owner, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
