package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	recipeapp "github.com/craftpos/backend/internal/application/recipe"
	"github.com/craftpos/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const costKeyPrefix = "recipe:cost:"

// RedisCostCache implements the recipe cost cache on Redis. Suitable for
// multi-instance deployments where all instances must see an invalidation.
type RedisCostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCostCache connects to Redis using the given configuration
func NewRedisCostCache(cfg config.RedisConfig) (*RedisCostCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCostCache{client: client, ttl: cfg.CacheTTL}, nil
}

// NewRedisCostCacheWithClient wraps an existing Redis client. Useful for
// tests or when sharing a client across components.
func NewRedisCostCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCostCache {
	return &RedisCostCache{client: client, ttl: ttl}
}

func costKey(recipeID uuid.UUID) string {
	return costKeyPrefix + recipeID.String()
}

// Get returns the cached cost, or found=false on a miss
func (c *RedisCostCache) Get(ctx context.Context, recipeID uuid.UUID) (recipeapp.CachedCost, bool, error) {
	var cost recipeapp.CachedCost

	payload, err := c.client.Get(ctx, costKey(recipeID)).Bytes()
	if err == redis.Nil {
		return cost, false, nil
	}
	if err != nil {
		return cost, false, fmt.Errorf("failed to read cached cost: %w", err)
	}

	if err := json.Unmarshal(payload, &cost); err != nil {
		// a corrupt entry behaves like a miss so the caller recomputes
		_ = c.client.Del(ctx, costKey(recipeID)).Err()
		return recipeapp.CachedCost{}, false, nil
	}
	return cost, true, nil
}

// Set stores the cost with the configured TTL
func (c *RedisCostCache) Set(ctx context.Context, recipeID uuid.UUID, cost recipeapp.CachedCost) error {
	payload, err := json.Marshal(cost)
	if err != nil {
		return fmt.Errorf("failed to encode cost: %w", err)
	}
	if err := c.client.Set(ctx, costKey(recipeID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache cost: %w", err)
	}
	return nil
}

// Invalidate drops the cached cost
func (c *RedisCostCache) Invalidate(ctx context.Context, recipeID uuid.UUID) error {
	if err := c.client.Del(ctx, costKey(recipeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached cost: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisCostCache) Close() error {
	return c.client.Close()
}

var _ recipeapp.CostCache = (*RedisCostCache)(nil)
