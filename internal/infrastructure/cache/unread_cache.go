package cache

import (
	"context"

	"github.com/google/uuid"
)

// UnreadCache caches per-user unread message counts. Counting unread
// rows is the hottest messaging query (badge polling), so the count is
// cached with a short TTL and invalidated whenever a message is sent,
// read, or deleted for the affected user.
type UnreadCache interface {
	// Get returns the cached count and whether a cached value existed.
	Get(ctx context.Context, userID uuid.UUID) (int64, bool, error)

	// Set stores the count for the user.
	Set(ctx context.Context, userID uuid.UUID, count int64) error

	// Invalidate drops cached counts for the given users.
	// Unknown users are ignored.
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error

	// Close releases any resources held by the cache.
	Close() error
}
