package pg

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocart-dev/gocart/internal/domain"
)

func newEntry(expiresIn time.Duration) domain.BlacklistEntry {
	now := time.Now().UTC()
	return domain.BlacklistEntry{
		AccessJti:     uuid.New(),
		RefreshJti:    uuid.New(),
		BlacklistedAt: now,
		ExpiresAt:     now.Add(expiresIn),
	}
}

func TestSaveBlacklistEntry(t *testing.T) {
	t.Run("both jtis become blacklisted", func(t *testing.T) {
		entry := newEntry(time.Hour)
		require.NoError(t, storage.SaveBlacklistEntry(entry))

		access, err := storage.IsAccessJtiBlacklisted(entry.AccessJti)
		require.NoError(t, err)
		assert.True(t, access)

		refresh, err := storage.IsRefreshJtiBlacklisted(entry.RefreshJti)
		require.NoError(t, err)
		assert.True(t, refresh)
	})

	t.Run("unknown jti is not blacklisted", func(t *testing.T) {
		access, err := storage.IsAccessJtiBlacklisted(uuid.New())
		require.NoError(t, err)
		assert.False(t, access)

		refresh, err := storage.IsRefreshJtiBlacklisted(uuid.New())
		require.NoError(t, err)
		assert.False(t, refresh)
	})

	t.Run("columns are independent", func(t *testing.T) {
		entry := newEntry(time.Hour)
		require.NoError(t, storage.SaveBlacklistEntry(entry))

		// an access jti does not match the refresh column and vice versa
		crossed, err := storage.IsRefreshJtiBlacklisted(entry.AccessJti)
		require.NoError(t, err)
		assert.False(t, crossed)
	})

	t.Run("double revoke is a no-op", func(t *testing.T) {
		entry := newEntry(time.Hour)
		require.NoError(t, storage.SaveBlacklistEntry(entry))
		require.NoError(t, storage.SaveBlacklistEntry(entry))

		access, err := storage.IsAccessJtiBlacklisted(entry.AccessJti)
		require.NoError(t, err)
		assert.True(t, access)
	})
}

func TestDeleteExpiredBlacklistEntries(t *testing.T) {
	expired := newEntry(-time.Minute)
	alive := newEntry(time.Hour)
	require.NoError(t, storage.SaveBlacklistEntry(expired))
	require.NoError(t, storage.SaveBlacklistEntry(alive))

	deleted, err := storage.DeleteExpiredBlacklistEntries(time.Now().UTC())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	gone, err := storage.IsAccessJtiBlacklisted(expired.AccessJti)
	require.NoError(t, err)
	assert.False(t, gone)

	kept, err := storage.IsAccessJtiBlacklisted(alive.AccessJti)
	require.NoError(t, err)
	assert.True(t, kept)
}
