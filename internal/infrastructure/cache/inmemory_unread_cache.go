package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type unreadEntry struct {
	count     int64
	expiresAt time.Time
}

// InMemoryUnreadCache implements UnreadCache using a map. Suitable for
// single-instance deployments and testing. A background goroutine
// evicts expired entries.
type InMemoryUnreadCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]unreadEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryUnreadCache creates an in-memory unread-count cache
func NewInMemoryUnreadCache(ttl time.Duration) *InMemoryUnreadCache {
	c := &InMemoryUnreadCache{
		entries:  make(map[uuid.UUID]unreadEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached count for the user, if present and not expired
func (c *InMemoryUnreadCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[userID]
	if !exists || time.Now().After(e.expiresAt) {
		return 0, false, nil
	}
	return e.count, true, nil
}

// Set stores the count for the user
func (c *InMemoryUnreadCache) Set(ctx context.Context, userID uuid.UUID, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = unreadEntry{
		count:     count,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops cached counts for the given users
func (c *InMemoryUnreadCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range userIDs {
		delete(c.entries, id)
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryUnreadCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of cached entries (for testing/monitoring)
func (c *InMemoryUnreadCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryUnreadCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryUnreadCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ UnreadCache = (*InMemoryUnreadCache)(nil)
