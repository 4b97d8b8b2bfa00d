package cache

import (
	"context"
	"sync"
	"time"

	recipeapp "github.com/craftpos/backend/internal/application/recipe"
	"github.com/google/uuid"
)

// InMemoryCostCache implements the recipe cost cache with process-local
// storage. Used when Redis is disabled; entries expire after the TTL.
type InMemoryCostCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]costEntry
	ttl     time.Duration
}

type costEntry struct {
	cost      recipeapp.CachedCost
	expiresAt time.Time
}

// NewInMemoryCostCache creates an in-memory cost cache. A zero TTL means
// entries never expire.
func NewInMemoryCostCache(ttl time.Duration) *InMemoryCostCache {
	return &InMemoryCostCache{
		entries: make(map[uuid.UUID]costEntry),
		ttl:     ttl,
	}
}

// Get returns the cached cost, or found=false on a miss
func (c *InMemoryCostCache) Get(ctx context.Context, recipeID uuid.UUID) (recipeapp.CachedCost, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[recipeID]
	c.mu.RUnlock()

	if !ok {
		return recipeapp.CachedCost{}, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, recipeID)
		c.mu.Unlock()
		return recipeapp.CachedCost{}, false, nil
	}
	return entry.cost, true, nil
}

// Set stores the cost
func (c *InMemoryCostCache) Set(ctx context.Context, recipeID uuid.UUID, cost recipeapp.CachedCost) error {
	entry := costEntry{cost: cost}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[recipeID] = entry
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached cost
func (c *InMemoryCostCache) Invalidate(ctx context.Context, recipeID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, recipeID)
	c.mu.Unlock()
	return nil
}

var _ recipeapp.CostCache = (*InMemoryCostCache)(nil)
