package production

import (
	"context"
	"sync"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/production"
	"github.com/craftpos/backend/internal/domain/recipe"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FulfillmentService owns the production use cases: planning orders,
// driving the status state machine, and executing the all-or-nothing
// fulfillment that consumes materials and credits the finished good.
//
// A per-order single-flight guard serializes fulfillment, so two concurrent
// completion requests for the same order cannot both move stock.
type FulfillmentService struct {
	scope          TransactionScope
	orderRepo      production.OrderRepository
	recipeRepo     recipe.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	scope TransactionScope,
	orderRepo production.OrderRepository,
	recipeRepo recipe.Repository,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		scope:      scope,
		orderRepo:  orderRepo,
		recipeRepo: recipeRepo,
		logger:     logger,
		inFlight:   make(map[uuid.UUID]struct{}),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *FulfillmentService) publishDomainEvents(ctx context.Context, order *production.ProductionOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// acquire marks the order as being fulfilled; returns false when another
// request already holds it.
func (s *FulfillmentService) acquire(orderID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.inFlight[orderID]; held {
		return false
	}
	s.inFlight[orderID] = struct{}{}
	return true
}

func (s *FulfillmentService) release(orderID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, orderID)
}

// CreateOrder plans a new production order
func (s *FulfillmentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RECIPE", "Invalid recipe_id value")
	}
	quantity, err := decimal.NewFromString(req.QuantityToProduce)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid quantity_to_produce value")
	}

	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !r.Active {
		return nil, shared.NewDomainError("INVALID_RECIPE", "Recipe is deactivated")
	}

	number, err := s.orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	order, err := production.NewProductionOrder(number, recipeID, quantity, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	if req.Priority != "" {
		if err := order.SetPriority(production.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.PlannedDate != nil {
		order.SetPlannedDate(*req.PlannedDate)
	}
	order.Notes = req.Notes

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.logger.Info("production order planned",
		zap.String("order_number", order.OrderNumber),
		zap.String("recipe_id", recipeID.String()),
		zap.String("quantity", quantity.String()))

	s.publishDomainEvents(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrder retrieves an order by ID
func (s *FulfillmentService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *FulfillmentService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[OrderResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	var (
		orders []production.ProductionOrder
		err    error
	)
	if filter.Status != "" {
		status := production.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown status filter")
		}
		orders, err = s.orderRepo.FindByStatus(ctx, status, domainFilter)
	} else {
		orders, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// TransitionOrder moves an order to the target status. A transition to
// completed routes through the fulfillment path so the stock movement and
// the status change stay coupled.
func (s *FulfillmentService) TransitionOrder(ctx context.Context, orderID uuid.UUID, req TransitionRequest) (*OrderResponse, error) {
	target := production.OrderStatus(req.Status)
	if target == production.StatusCompleted {
		return s.CompleteProduction(ctx, orderID)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	s.logger.Info("production order transitioned",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)))

	s.publishDomainEvents(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// CompleteProduction executes an order: it validates stock coverage for
// every scaled component first, then, only if all of them are covered,
// debits the materials, credits the finished good, and completes the order
// inside one transaction scope. On any failure the order keeps its prior
// status and no stock moves.
func (s *FulfillmentService) CompleteProduction(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	// single-flight: a duplicate request while fulfillment is running is
	// ignored and sees the order as it currently stands
	if !s.acquire(orderID) {
		s.logger.Warn("duplicate fulfillment request ignored",
			zap.String("order_id", orderID.String()))
		return s.GetOrder(ctx, orderID)
	}
	defer s.release(orderID)

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// reject early so an order in the wrong state never reaches the scope
	if !order.Status.CanTransitionTo(production.StatusCompleted) {
		return nil, shared.NewInvalidTransitionError(string(order.Status), string(production.StatusCompleted))
	}

	r, err := s.recipeRepo.FindByID(ctx, order.RecipeID)
	if err != nil {
		return nil, err
	}

	txErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// validation phase: load every material and check coverage,
		// collecting all shortfalls before failing
		type requirement struct {
			item     *inventory.InventoryItem
			required decimal.Decimal
		}
		requirements := make([]requirement, 0, len(r.Components))
		var shortfalls []shared.Shortfall
		for _, c := range r.Components {
			item, err := repos.ItemRepo().FindActiveByID(ctx, c.ItemID)
			if err != nil {
				return err
			}
			required := c.QuantityRequired.Mul(order.QuantityToProduce)
			if !item.CanFulfill(required) {
				shortfalls = append(shortfalls, shared.Shortfall{
					ItemID:    item.ID.String(),
					ItemName:  item.Name,
					Required:  required.String(),
					Available: item.CurrentStock.String(),
				})
			}
			requirements = append(requirements, requirement{item: item, required: required})
		}
		if len(shortfalls) > 0 {
			return shared.NewInsufficientStockError(shortfalls)
		}

		// apply phase: every delta is guaranteed to succeed after the
		// validation above, so a failure here is a store failure and
		// rolls the whole scope back
		for _, req := range requirements {
			if err := req.item.ApplyDelta(req.required.Neg()); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, req.item); err != nil {
				return shared.NewStoreFailure(err)
			}
			if _, err := order.RecordMaterialUsage(req.item.ID, req.required, req.required, req.item.EffectiveUnitCost()); err != nil {
				return err
			}
		}

		produced := order.QuantityToProduce.Mul(r.YieldQuantity)
		if r.FinishedGoodID != nil {
			finished, err := repos.ItemRepo().FindActiveByID(ctx, *r.FinishedGoodID)
			if err != nil {
				return err
			}
			if err := finished.ApplyDelta(produced); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, finished); err != nil {
				return shared.NewStoreFailure(err)
			}
		}

		if err := order.Complete(); err != nil {
			return err
		}
		order.AddDomainEvent(production.NewOrderFulfilledEvent(order, produced))

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return shared.NewStoreFailure(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("production order fulfilled",
		zap.String("order_number", order.OrderNumber),
		zap.String("quantity", order.QuantityToProduce.String()),
		zap.String("material_cost", order.TotalMaterialCost().String()))

	s.publishDomainEvents(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}
