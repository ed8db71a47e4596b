package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	"github.com/gocart-dev/gocart/internal/logger"
)

type BlacklistStorage interface {
	SaveBlacklistEntry(entry domain.BlacklistEntry) error
	IsAccessJtiBlacklisted(jti uuid.UUID) (bool, error)
	IsRefreshJtiBlacklisted(jti uuid.UUID) (bool, error)
	DeleteExpiredBlacklistEntries(now time.Time) (int64, error)
}

// Blacklist records revoked token pairs and answers revocation queries.
// No in-memory state: each check is a point query against storage.
type Blacklist struct {
	storage   BlacklistStorage
	retention time.Duration
}

func NewBlacklist(storage BlacklistStorage, retention time.Duration) *Blacklist {
	return &Blacklist{storage: storage, retention: retention}
}

// Revoke stores one paired entry for a logout event. Revoking a pair that is
// already revoked is not an error; a second row (or none at all) is harmless
// because lookups only ask about membership.
func (b *Blacklist) Revoke(accessJti, refreshJti uuid.UUID) error {
	now := time.Now().UTC()
	return b.storage.SaveBlacklistEntry(domain.BlacklistEntry{
		AccessJti:     accessJti,
		RefreshJti:    refreshJti,
		BlacklistedAt: now,
		ExpiresAt:     now.Add(b.retention),
	})
}

func (b *Blacklist) IsAccessRevoked(jti uuid.UUID) (bool, error) {
	return b.storage.IsAccessJtiBlacklisted(jti)
}

func (b *Blacklist) IsRefreshRevoked(jti uuid.UUID) (bool, error) {
	return b.storage.IsRefreshJtiBlacklisted(jti)
}

// PurgeExpired drops entries past their retention window. Called opportunistically
// after each successful logout instead of from a scheduler; a failed purge is
// logged and swallowed since the logout itself already succeeded.
func (b *Blacklist) PurgeExpired() {
	deleted, err := b.storage.DeleteExpiredBlacklistEntries(time.Now().UTC())
	if err != nil {
		logger.Log.Warn("blacklist purge failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Log.Info("purged expired blacklist entries", "count", deleted)
	}
}
