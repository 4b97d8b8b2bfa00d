package recipe

import (
	"context"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/recipe"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CostService owns the recipe use cases: recipe and component management
// plus the cost rollup. Component mutations recompute the cached total
// synchronously, so readers never observe a stale persisted cost after a
// mutation has been acknowledged.
type CostService struct {
	recipeRepo     recipe.Repository
	itemRepo       inventory.ItemRepository
	costCache      CostCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCostService creates a new CostService
func NewCostService(recipeRepo recipe.Repository, itemRepo inventory.ItemRepository, logger *zap.Logger) *CostService {
	return &CostService{
		recipeRepo: recipeRepo,
		itemRepo:   itemRepo,
		logger:     logger,
	}
}

// SetCostCache sets the optional read-through cost cache
func (s *CostService) SetCostCache(cache CostCache) {
	s.costCache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CostService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CostService) publishDomainEvents(ctx context.Context, r *recipe.Recipe) {
	if s.eventPublisher == nil {
		return
	}
	events := r.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	r.ClearDomainEvents()
}

func (s *CostService) invalidateCost(ctx context.Context, recipeID uuid.UUID) {
	if s.costCache == nil {
		return
	}
	if err := s.costCache.Invalidate(ctx, recipeID); err != nil {
		s.logger.Warn("cost cache invalidation failed",
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err))
	}
}

// CreateRecipe creates a new bill of materials
func (s *CostService) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*RecipeResponse, error) {
	yield, err := decimal.NewFromString(req.YieldQuantity)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_YIELD", "Invalid yield_quantity value")
	}

	r, err := recipe.NewRecipe(req.Name, yield)
	if err != nil {
		return nil, err
	}

	if req.FinishedGoodID != nil {
		itemID, err := uuid.Parse(*req.FinishedGoodID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "Invalid finished_good_id value")
		}
		item, err := s.itemRepo.FindActiveByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item.Kind != inventory.KindFinishedGood {
			return nil, shared.NewDomainError("INVALID_ITEM", "Linked item must be a finished good")
		}
		if err := r.LinkFinishedGood(itemID); err != nil {
			return nil, err
		}
	}

	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", r.ID.String()),
		zap.String("name", r.Name))

	resp := ToRecipeResponse(r)
	return &resp, nil
}

// GetRecipe retrieves a recipe with its components
func (s *CostService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	resp := ToRecipeResponse(r)
	return &resp, nil
}

// List retrieves recipes with filtering and pagination
func (s *CostService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[RecipeResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	recipes, err := s.recipeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}
	total, err := s.recipeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	responses := make([]RecipeResponse, 0, len(recipes))
	for idx := range recipes {
		responses = append(responses, ToRecipeResponse(&recipes[idx]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AddComponent adds a component line and recomputes the cached cost in the
// same operation.
func (s *CostService) AddComponent(ctx context.Context, recipeID uuid.UUID, req AddComponentRequest) (*RecipeResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Invalid item_id value")
	}
	quantity, err := decimal.NewFromString(req.QuantityRequired)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid quantity_required value")
	}
	var override *decimal.Decimal
	if req.CostOverride != nil {
		parsed, err := decimal.NewFromString(*req.CostOverride)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_COST", "Invalid cost_override value")
		}
		override = &parsed
	}

	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	// the component must reference a registered, active item
	if _, err := s.itemRepo.FindActiveByID(ctx, itemID); err != nil {
		return nil, err
	}

	if _, err := r.AddComponent(itemID, quantity, override, req.Notes); err != nil {
		return nil, err
	}

	if err := s.recalculate(ctx, r); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.invalidateCost(ctx, r.ID)
	s.publishDomainEvents(ctx, r)
	resp := ToRecipeResponse(r)
	return &resp, nil
}

// RemoveComponent removes a component line and recomputes the cached cost
func (s *CostService) RemoveComponent(ctx context.Context, recipeID, componentID uuid.UUID) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if err := r.RemoveComponent(componentID); err != nil {
		return nil, err
	}

	if err := s.recalculate(ctx, r); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, shared.NewStoreFailure(err)
	}
	if err := s.recipeRepo.RemoveComponentRow(ctx, componentID); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.invalidateCost(ctx, r.ID)
	s.publishDomainEvents(ctx, r)
	resp := ToRecipeResponse(r)
	return &resp, nil
}

// RecalculateCost recomputes and persists the recipe's total cost from the
// current item unit costs.
func (s *CostService) RecalculateCost(ctx context.Context, recipeID uuid.UUID) (*CostResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.recalculate(ctx, r); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.invalidateCost(ctx, r.ID)
	s.publishDomainEvents(ctx, r)
	resp := ToCostResponse(r)
	return &resp, nil
}

// GetCost returns the recipe's total cost, reading through the cache when
// one is configured.
func (s *CostService) GetCost(ctx context.Context, recipeID uuid.UUID) (*CostResponse, error) {
	if s.costCache != nil {
		cached, found, err := s.costCache.Get(ctx, recipeID)
		if err != nil {
			s.logger.Warn("cost cache read failed", zap.Error(err))
		} else if found {
			return &CostResponse{
				RecipeID:  recipeID.String(),
				TotalCost: cached.TotalCost.String(),
				UnitCost:  cached.UnitCost.String(),
			}, nil
		}
	}

	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if s.costCache != nil {
		cached := CachedCost{TotalCost: r.TotalCost, UnitCost: r.TotalCost.Div(r.YieldQuantity)}
		if err := s.costCache.Set(ctx, recipeID, cached); err != nil {
			s.logger.Warn("cost cache write failed", zap.Error(err))
		}
	}

	resp := ToCostResponse(r)
	return &resp, nil
}

// recalculate fetches the unit costs of all referenced items and folds them
// into the aggregate's cached total.
func (s *CostService) recalculate(ctx context.Context, r *recipe.Recipe) error {
	itemIDs := r.ComponentItemIDs()
	costs := make(map[uuid.UUID]decimal.Decimal, len(itemIDs))
	if len(itemIDs) > 0 {
		items, err := s.itemRepo.FindByIDs(ctx, itemIDs)
		if err != nil {
			return shared.NewStoreFailure(err)
		}
		for idx := range items {
			costs[items[idx].ID] = items[idx].EffectiveUnitCost()
		}
	}
	r.RecalculateTotalCost(costs)
	return nil
}

// RecalculateForItem recomputes every recipe referencing the given item.
// This is the write side of the eager recomputation policy driven by the
// item cost change event.
func (s *CostService) RecalculateForItem(ctx context.Context, itemID uuid.UUID) error {
	recipes, err := s.recipeRepo.FindReferencingItem(ctx, itemID)
	if err != nil {
		return shared.NewStoreFailure(err)
	}

	for idx := range recipes {
		r := &recipes[idx]
		if err := s.recalculate(ctx, r); err != nil {
			return err
		}
		if err := s.recipeRepo.Save(ctx, r); err != nil {
			return shared.NewStoreFailure(err)
		}
		s.invalidateCost(ctx, r.ID)
		s.publishDomainEvents(ctx, r)
	}

	if len(recipes) > 0 {
		s.logger.Info("recipe costs recomputed after item cost change",
			zap.String("item_id", itemID.String()),
			zap.Int("recipes", len(recipes)))
	}
	return nil
}

// DeactivateRecipe soft-deletes a recipe
func (s *CostService) DeactivateRecipe(ctx context.Context, recipeID uuid.UUID) error {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	r.Deactivate()
	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return shared.NewStoreFailure(err)
	}
	s.invalidateCost(ctx, r.ID)
	return nil
}
