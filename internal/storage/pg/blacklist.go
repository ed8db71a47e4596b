package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
)

// =========================================================================
// Public Methods (satisfy the service.BlacklistStorage interface)
// =========================================================================

// SaveBlacklistEntry records a revoked access/refresh jti pair. Revoking the
// exact same pair twice is treated as a no-op rather than an error: the jtis
// are already unusable either way.
func (s *Storage) SaveBlacklistEntry(entry domain.BlacklistEntry) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.saveBlacklistEntry(tx, entry)
	})
}

// IsAccessJtiBlacklisted checks the access jti column. Absence means
// "not revoked".
func (s *Storage) IsAccessJtiBlacklisted(jti uuid.UUID) (bool, error) {
	return s.isJtiBlacklisted(s.db, "access_jti", jti)
}

// IsRefreshJtiBlacklisted checks the refresh jti column.
func (s *Storage) IsRefreshJtiBlacklisted(jti uuid.UUID) (bool, error) {
	return s.isJtiBlacklisted(s.db, "refresh_jti", jti)
}

// DeleteExpiredBlacklistEntries drops every entry whose expiry has passed and
// returns how many were removed.
func (s *Storage) DeleteExpiredBlacklistEntries(now time.Time) (int64, error) {
	var deleted int64
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		deleted, err = s.deleteExpiredBlacklistEntries(tx, now)
		return err
	})
	return deleted, err
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveBlacklistEntry(q Querier, entry domain.BlacklistEntry) error {
	id := entry.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.Exec(`
        INSERT INTO blacklisted_tokens(id, access_jti, refresh_jti, blacklisted_at, expires_at)
        VALUES($1, $2, $3, $4, $5)
        ON CONFLICT (access_jti) DO NOTHING`,
		id, entry.AccessJti, entry.RefreshJti, entry.BlacklistedAt, entry.ExpiresAt,
	)
	if err != nil {
		// the refresh_jti unique index can still fire when the same refresh token
		// is paired with a different access token; that pair is revoked already
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to insert blacklist entry: %w", err)
	}
	return nil
}

func (s *Storage) isJtiBlacklisted(q Querier, column string, jti uuid.UUID) (bool, error) {
	// column is one of two compile-time constants, never user input
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM blacklisted_tokens WHERE %s = $1)", column)
	if err := q.QueryRow(query, jti).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check blacklist status: %w", err)
	}
	return exists, nil
}

func (s *Storage) deleteExpiredBlacklistEntries(q Querier, now time.Time) (int64, error) {
	result, err := q.Exec("DELETE FROM blacklisted_tokens WHERE expires_at < $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired blacklist entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows for blacklist purge: %w", err)
	}
	return deleted, nil
}
