package cache

import (
	"context"
	"testing"
	"time"

	recipeapp "github.com/craftpos/backend/internal/application/recipe"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCostCache(t *testing.T) {
	ctx := context.Background()
	cost := recipeapp.CachedCost{
		TotalCost: decimal.NewFromInt(7000),
		UnitCost:  decimal.NewFromInt(7000),
	}

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryCostCache(0)

		_, found, err := c.Get(ctx, uuid.New())

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryCostCache(0)
		id := uuid.New()
		require.NoError(t, c.Set(ctx, id, cost))

		got, found, err := c.Get(ctx, id)

		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, got.TotalCost.Equal(cost.TotalCost))
		assert.True(t, got.UnitCost.Equal(cost.UnitCost))
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryCostCache(0)
		id := uuid.New()
		require.NoError(t, c.Set(ctx, id, cost))
		require.NoError(t, c.Invalidate(ctx, id))

		_, found, err := c.Get(ctx, id)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("entries expire after the TTL", func(t *testing.T) {
		c := NewInMemoryCostCache(10 * time.Millisecond)
		id := uuid.New()
		require.NoError(t, c.Set(ctx, id, cost))

		time.Sleep(20 * time.Millisecond)

		_, found, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, found)
	})
}
