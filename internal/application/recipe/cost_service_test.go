package recipe

import (
	"context"
	"testing"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/recipe"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRecipeRepo is an in-memory recipe.Repository for service tests
type memoryRecipeRepo struct {
	recipes map[uuid.UUID]*recipe.Recipe
}

func newMemoryRecipeRepo() *memoryRecipeRepo {
	return &memoryRecipeRepo{recipes: make(map[uuid.UUID]*recipe.Recipe)}
}

func (r *memoryRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	rec, ok := r.recipes[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *rec
	copied.Components = append([]recipe.RecipeComponent(nil), rec.Components...)
	return &copied, nil
}

func (r *memoryRecipeRepo) FindAll(_ context.Context, _ shared.Filter) ([]recipe.Recipe, error) {
	result := make([]recipe.Recipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		result = append(result, *rec)
	}
	return result, nil
}

func (r *memoryRecipeRepo) FindByFinishedGood(_ context.Context, itemID uuid.UUID) ([]recipe.Recipe, error) {
	result := make([]recipe.Recipe, 0)
	for _, rec := range r.recipes {
		if rec.FinishedGoodID != nil && *rec.FinishedGoodID == itemID {
			result = append(result, *rec)
		}
	}
	return result, nil
}

func (r *memoryRecipeRepo) FindReferencingItem(_ context.Context, itemID uuid.UUID) ([]recipe.Recipe, error) {
	result := make([]recipe.Recipe, 0)
	for _, rec := range r.recipes {
		for _, c := range rec.Components {
			if c.ItemID == itemID {
				copied := *rec
				copied.Components = append([]recipe.RecipeComponent(nil), rec.Components...)
				result = append(result, copied)
				break
			}
		}
	}
	return result, nil
}

func (r *memoryRecipeRepo) Save(_ context.Context, rec *recipe.Recipe) error {
	copied := *rec
	copied.Components = append([]recipe.RecipeComponent(nil), rec.Components...)
	r.recipes[rec.ID] = &copied
	return nil
}

func (r *memoryRecipeRepo) RemoveComponentRow(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (r *memoryRecipeRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.recipes)), nil
}

// memoryItemRepo provides just enough of inventory.ItemRepository
type memoryItemRepo struct {
	items map[uuid.UUID]*inventory.InventoryItem
}

func newMemoryItemRepo() *memoryItemRepo {
	return &memoryItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *memoryItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *memoryItemRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := r.FindByID(ctx, id)
	if err != nil || !item.Active {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *memoryItemRepo) FindBySKU(_ context.Context, _ string) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *memoryItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *memoryItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) FindBelowMinimum(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *memoryItemRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memoryItemRepo) ExistsBySKU(_ context.Context, _ string) (bool, error) {
	return false, nil
}

// memoryCostCache records cache traffic for assertions
type memoryCostCache struct {
	entries     map[uuid.UUID]CachedCost
	hits, sets  int
	invalidated int
}

func newMemoryCostCache() *memoryCostCache {
	return &memoryCostCache{entries: make(map[uuid.UUID]CachedCost)}
}

func (c *memoryCostCache) Get(_ context.Context, id uuid.UUID) (CachedCost, bool, error) {
	cost, ok := c.entries[id]
	if ok {
		c.hits++
	}
	return cost, ok, nil
}

func (c *memoryCostCache) Set(_ context.Context, id uuid.UUID, cost CachedCost) error {
	c.entries[id] = cost
	c.sets++
	return nil
}

func (c *memoryCostCache) Invalidate(_ context.Context, id uuid.UUID) error {
	delete(c.entries, id)
	c.invalidated++
	return nil
}

func seedItem(t *testing.T, items *memoryItemRepo, name, sku string, unitCost int64) uuid.UUID {
	t.Helper()
	item, err := inventory.NewInventoryItem(name, sku, inventory.KindRawMaterial, "kg")
	require.NoError(t, err)
	item.UnitCost = decimal.NewNullDecimal(decimal.NewFromInt(unitCost))
	item.ClearDomainEvents()
	require.NoError(t, items.Save(context.Background(), item))
	return item.ID
}

func seedRecipe(t *testing.T, recipes *memoryRecipeRepo) uuid.UUID {
	t.Helper()
	r, err := recipe.NewRecipe("Espresso Shot", decimal.NewFromInt(1))
	require.NoError(t, err)
	r.ClearDomainEvents()
	require.NoError(t, recipes.Save(context.Background(), r))
	return r.ID
}

func TestCostService_AddComponent(t *testing.T) {
	t.Run("recomputes total cost on add", func(t *testing.T) {
		recipes := newMemoryRecipeRepo()
		items := newMemoryItemRepo()
		svc := NewCostService(recipes, items, zap.NewNop())
		recipeID := seedRecipe(t, recipes)
		beansID := seedItem(t, items, "Arabica Beans", "RM-001", 150000)

		resp, err := svc.AddComponent(context.Background(), recipeID, AddComponentRequest{
			ItemID:           beansID.String(),
			QuantityRequired: "0.02",
		})

		require.NoError(t, err)
		require.Len(t, resp.Components, 1)
		assert.Equal(t, "3000", resp.TotalCost)
	})

	t.Run("cost override wins over item cost", func(t *testing.T) {
		recipes := newMemoryRecipeRepo()
		items := newMemoryItemRepo()
		svc := NewCostService(recipes, items, zap.NewNop())
		recipeID := seedRecipe(t, recipes)
		beansID := seedItem(t, items, "Arabica Beans", "RM-001", 150000)
		override := "100"

		resp, err := svc.AddComponent(context.Background(), recipeID, AddComponentRequest{
			ItemID:           beansID.String(),
			QuantityRequired: "3",
			CostOverride:     &override,
		})

		require.NoError(t, err)
		assert.Equal(t, "300", resp.TotalCost)
	})

	t.Run("rejects components referencing unknown items", func(t *testing.T) {
		recipes := newMemoryRecipeRepo()
		items := newMemoryItemRepo()
		svc := NewCostService(recipes, items, zap.NewNop())
		recipeID := seedRecipe(t, recipes)

		_, err := svc.AddComponent(context.Background(), recipeID, AddComponentRequest{
			ItemID:           uuid.New().String(),
			QuantityRequired: "1",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCostService_RemoveComponent(t *testing.T) {
	recipes := newMemoryRecipeRepo()
	items := newMemoryItemRepo()
	svc := NewCostService(recipes, items, zap.NewNop())
	recipeID := seedRecipe(t, recipes)
	beansID := seedItem(t, items, "Arabica Beans", "RM-001", 150000)

	added, err := svc.AddComponent(context.Background(), recipeID, AddComponentRequest{
		ItemID:           beansID.String(),
		QuantityRequired: "0.02",
	})
	require.NoError(t, err)

	componentID, err := uuid.Parse(added.Components[0].ID)
	require.NoError(t, err)

	resp, err := svc.RemoveComponent(context.Background(), recipeID, componentID)

	require.NoError(t, err)
	assert.Empty(t, resp.Components)
	assert.Equal(t, "0", resp.TotalCost, "recipe with no components costs zero")
}

func TestCostService_RecalculateForItem(t *testing.T) {
	recipes := newMemoryRecipeRepo()
	items := newMemoryItemRepo()
	svc := NewCostService(recipes, items, zap.NewNop())
	recipeID := seedRecipe(t, recipes)
	beansID := seedItem(t, items, "Arabica Beans", "RM-001", 150000)

	_, err := svc.AddComponent(context.Background(), recipeID, AddComponentRequest{
		ItemID:           beansID.String(),
		QuantityRequired: "0.02",
	})
	require.NoError(t, err)

	// item cost changes; the handler drives this entry point
	item, err := items.FindByID(context.Background(), beansID)
	require.NoError(t, err)
	item.UnitCost = decimal.NewNullDecimal(decimal.NewFromInt(200000))

	require.NoError(t, svc.RecalculateForItem(context.Background(), beansID))

	cost, err := svc.GetCost(context.Background(), recipeID)
	require.NoError(t, err)
	assert.Equal(t, "4000", cost.TotalCost)
}

func TestCostService_GetCost_Cache(t *testing.T) {
	recipes := newMemoryRecipeRepo()
	items := newMemoryItemRepo()
	cache := newMemoryCostCache()
	svc := NewCostService(recipes, items, zap.NewNop())
	svc.SetCostCache(cache)
	recipeID := seedRecipe(t, recipes)
	beansID := seedItem(t, items, "Arabica Beans", "RM-001", 150000)

	_, err := svc.AddComponent(context.Background(), recipeID, AddComponentRequest{
		ItemID:           beansID.String(),
		QuantityRequired: "0.02",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated, "mutation invalidates the cache")

	// first read misses and populates, second read hits
	first, err := svc.GetCost(context.Background(), recipeID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.GetCost(context.Background(), recipeID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, "3000", second.TotalCost)
}

func TestCostService_CreateRecipe(t *testing.T) {
	t.Run("links a finished good item", func(t *testing.T) {
		recipes := newMemoryRecipeRepo()
		items := newMemoryItemRepo()
		svc := NewCostService(recipes, items, zap.NewNop())

		finished, err := inventory.NewInventoryItem("Latte", "FG-001", inventory.KindFinishedGood, "cup")
		require.NoError(t, err)
		require.NoError(t, items.Save(context.Background(), finished))
		finishedID := finished.ID.String()

		resp, err := svc.CreateRecipe(context.Background(), CreateRecipeRequest{
			Name:           "Latte",
			YieldQuantity:  "1",
			FinishedGoodID: &finishedID,
		})

		require.NoError(t, err)
		require.NotNil(t, resp.FinishedGoodID)
		assert.Equal(t, finishedID, *resp.FinishedGoodID)
	})

	t.Run("rejects a raw material as finished good", func(t *testing.T) {
		recipes := newMemoryRecipeRepo()
		items := newMemoryItemRepo()
		svc := NewCostService(recipes, items, zap.NewNop())
		rawID := seedItem(t, items, "Arabica Beans", "RM-001", 0).String()

		_, err := svc.CreateRecipe(context.Background(), CreateRecipeRequest{
			Name:           "Broken",
			YieldQuantity:  "1",
			FinishedGoodID: &rawID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ITEM", domainErr.Code)
	})
}
