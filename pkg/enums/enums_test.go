package enums

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeStatus(t *testing.T) {
	status, err := ParseChallengeStatus("active")
	require.NoError(t, err)
	assert.Equal(t, ChallengeStatusActive, status)
	assert.False(t, status.IsTerminal())
	assert.True(t, ChallengeStatusCompleted.IsTerminal())
	assert.True(t, ChallengeStatusCancelled.IsTerminal())

	_, err = ParseChallengeStatus("archived")
	assert.Error(t, err)
	assert.False(t, ChallengeStatus("ACTIVE").IsValid())
}

func TestParticipantStatus(t *testing.T) {
	for _, raw := range []string{"joined", "forfeited", "completed"} {
		status, err := ParseParticipantStatus(raw)
		require.NoError(t, err)
		assert.True(t, status.IsValid())
	}
	_, err := ParseParticipantStatus("left")
	assert.Error(t, err)
}

func TestCoinReferenceType(t *testing.T) {
	assert.True(t, CoinReferenceChallengeComplete.IsValid())
	_, err := ParseCoinReferenceType("gift")
	assert.Error(t, err)
}

func TestUsageRange(t *testing.T) {
	r, err := ParseUsageRange("")
	require.NoError(t, err)
	assert.Equal(t, UsageRangeDay, r)

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-24*time.Hour), UsageRangeDay.Since(now))
	assert.Equal(t, now.Add(-168*time.Hour), UsageRangeWeek.Since(now))

	_, err = ParseUsageRange("month")
	assert.Error(t, err)
}

func TestFriendAction(t *testing.T) {
	action, err := ParseFriendAction("accept")
	require.NoError(t, err)
	assert.Equal(t, FriendActionAccept, action)
	_, err = ParseFriendAction("block")
	assert.Error(t, err)
	assert.True(t, FriendshipStatusAccepted.IsValid())
	assert.False(t, FriendshipStatus("pending").IsValid())
}

func TestThemeModeAndPalette(t *testing.T) {
	mode, err := ParseThemeMode("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeModeDark, mode)
	_, err = ParseThemeMode("sepia")
	assert.Error(t, err)

	palette, err := ParsePalette("c")
	require.NoError(t, err)
	assert.Equal(t, PaletteC, palette)
	_, err = ParsePalette("e")
	assert.Error(t, err)
}
