package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timerapp/timerapp-backend/pkg/db"
)

func TestOpenAppliesMigrations(t *testing.T) {
	conn := Open(t)
	for _, table := range []string{"users", "challenges", "challenge_participants", "coin_ledger", "usage_sessions", "user_settings", "friendships", "badges", "user_badges"} {
		assert.True(t, conn.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestOpenEnforcesParticipantStatusCheck(t *testing.T) {
	conn := Open(t)
	challengeID := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, conn.Exec(
		"INSERT INTO challenges (id, creator_user_id, title, status, coin_reward, created_at, updated_at) VALUES (?, ?, ?, 'active', 0, ?, ?)",
		challengeID, uuid.New(), "Focus", now, now,
	).Error)

	err := conn.Exec(
		"INSERT INTO challenge_participants (challenge_id, user_id, status, joined_at) VALUES (?, ?, 'left', ?)",
		challengeID, uuid.New(), now,
	).Error
	require.Error(t, err)
	assert.True(t, db.IsConstraintViolation(err))
}
