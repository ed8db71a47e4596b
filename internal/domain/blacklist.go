package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistEntry records one logout event: the access and refresh jtis
// revoked together. The row is kept until ExpiresAt, after which the purge
// may drop it (both tokens are expired by then anyway).
type BlacklistEntry struct {
	Id            uuid.UUID
	AccessJti     uuid.UUID
	RefreshJti    uuid.UUID
	BlacklistedAt time.Time
	ExpiresAt     time.Time
}
