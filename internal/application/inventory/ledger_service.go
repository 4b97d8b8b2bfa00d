package inventory

import (
	"context"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService owns the stock ledger use cases: item registration, signed
// stock adjustments, restocks, and dirty stock reads. Each mutation loads
// the aggregate, mutates it, and saves it in one repository call; the item
// row is the unit of atomicity.
type LedgerService struct {
	itemRepo       inventory.ItemRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(itemRepo inventory.ItemRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LedgerService) publishDomainEvents(ctx context.Context, item *inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// RegisterItem registers a new stockable item
func (s *LedgerService) RegisterItem(ctx context.Context, req RegisterItemRequest) (*ItemResponse, error) {
	exists, err := s.itemRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An item with this SKU is already registered")
	}

	item, err := inventory.NewInventoryItem(req.Name, req.SKU, inventory.ItemKind(req.Kind), req.Unit)
	if err != nil {
		return nil, err
	}

	if req.MinStock != "" || req.MaxStock != "" {
		minStock := decimal.Zero
		maxStock := decimal.Zero
		if req.MinStock != "" {
			if minStock, err = parseDecimal(req.MinStock); err != nil {
				return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid min_stock value")
			}
		}
		if req.MaxStock != "" {
			if maxStock, err = parseDecimal(req.MaxStock); err != nil {
				return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid max_stock value")
			}
		}
		if err := item.UpdateDetails(item.Name, item.Unit, minStock, maxStock); err != nil {
			return nil, err
		}
	}

	if req.UnitCost != nil {
		cost, err := parseDecimal(*req.UnitCost)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_COST", "Invalid unit_cost value")
		}
		if err := item.SetUnitCost(valueobject.NewMoneyIDR(cost)); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.logger.Info("inventory item registered",
		zap.String("item_id", item.ID.String()),
		zap.String("sku", item.SKU),
		zap.String("kind", string(item.Kind)))

	s.publishDomainEvents(ctx, item)
	resp := ToItemResponse(item)
	return &resp, nil
}

// AdjustStock applies a signed delta to the item's stock and returns the
// resulting quantity. A delta of zero is accepted and changes nothing.
func (s *LedgerService) AdjustStock(ctx context.Context, itemID uuid.UUID, req AdjustStockRequest) (*StockResponse, error) {
	delta, err := parseDecimal(req.Delta)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid delta value")
	}

	item, err := s.itemRepo.FindActiveByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.ApplyDelta(delta); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.logger.Info("stock adjusted",
		zap.String("item_id", item.ID.String()),
		zap.String("delta", delta.String()),
		zap.String("new_stock", item.CurrentStock.String()),
		zap.String("reason", req.Reason))

	s.publishDomainEvents(ctx, item)
	resp := ToStockResponse(item)
	return &resp, nil
}

// Restock adds a strictly positive quantity to the item's stock
func (s *LedgerService) Restock(ctx context.Context, itemID uuid.UUID, req RestockRequest) (*StockResponse, error) {
	quantity, err := parseDecimal(req.Quantity)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid quantity value")
	}

	item, err := s.itemRepo.FindActiveByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Restock(quantity); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.logger.Info("item restocked",
		zap.String("item_id", item.ID.String()),
		zap.String("quantity", quantity.String()),
		zap.String("new_stock", item.CurrentStock.String()))

	s.publishDomainEvents(ctx, item)
	resp := ToStockResponse(item)
	return &resp, nil
}

// ReadStock returns the current stock of an item. The read is not
// serialized against concurrent mutations; callers get the latest committed
// value.
func (s *LedgerService) ReadStock(ctx context.Context, itemID uuid.UUID) (*StockResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(item)
	return &resp, nil
}

// GetItem retrieves an item by ID
func (s *LedgerService) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// UpdateItem updates item master data and, when the unit cost changes,
// publishes the cost-change event that drives recipe cost recomputation.
func (s *LedgerService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindActiveByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	name := item.Name
	unit := item.Unit
	minStock := item.MinStock
	maxStock := item.MaxStock
	if req.Name != nil {
		name = *req.Name
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.MinStock != nil {
		if minStock, err = parseDecimal(*req.MinStock); err != nil {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid min_stock value")
		}
	}
	if req.MaxStock != nil {
		if maxStock, err = parseDecimal(*req.MaxStock); err != nil {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid max_stock value")
		}
	}

	if err := item.UpdateDetails(name, unit, minStock, maxStock); err != nil {
		return nil, err
	}

	if req.UnitCost != nil {
		cost, err := parseDecimal(*req.UnitCost)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_COST", "Invalid unit_cost value")
		}
		if err := item.SetUnitCost(valueobject.NewMoneyIDR(cost)); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.publishDomainEvents(ctx, item)
	resp := ToItemResponse(item)
	return &resp, nil
}

// DeactivateItem soft-deletes an item
func (s *LedgerService) DeactivateItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	item.Deactivate()
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return shared.NewStoreFailure(err)
	}
	s.logger.Info("inventory item deactivated", zap.String("item_id", item.ID.String()))
	return nil
}

// List retrieves items with filtering and pagination
func (s *LedgerService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[ItemResponse], error) {
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
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}

	var (
		items []inventory.InventoryItem
		err   error
	)
	if filter.BelowMinimum {
		items, err = s.itemRepo.FindBelowMinimum(ctx, domainFilter)
	} else {
		items, err = s.itemRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	responses := make([]ItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToItemResponse(&items[idx]))
	}

	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}
