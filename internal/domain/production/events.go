package production

import (
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for production orders
const (
	EventTypeOrderPlanned      = "production.order_planned"
	EventTypeOrderTransitioned = "production.order_transitioned"
	EventTypeOrderFulfilled    = "production.order_fulfilled"
)

const aggregateTypeOrder = "ProductionOrder"

// OrderPlannedEvent is emitted when a new order is created
type OrderPlannedEvent struct {
	shared.BaseDomainEvent
	OrderNumber       string          `json:"order_number"`
	RecipeID          uuid.UUID       `json:"recipe_id"`
	QuantityToProduce decimal.Decimal `json:"quantity_to_produce"`
}

// NewOrderPlannedEvent creates an OrderPlannedEvent
func NewOrderPlannedEvent(o *ProductionOrder) *OrderPlannedEvent {
	return &OrderPlannedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeOrderPlanned, aggregateTypeOrder, o.ID),
		OrderNumber:       o.OrderNumber,
		RecipeID:          o.RecipeID,
		QuantityToProduce: o.QuantityToProduce,
	}
}

// OrderTransitionedEvent is emitted on every status change
type OrderTransitionedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
}

// NewOrderTransitionedEvent creates an OrderTransitionedEvent
func NewOrderTransitionedEvent(o *ProductionOrder, from OrderStatus) *OrderTransitionedEvent {
	return &OrderTransitionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTransitioned, aggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		FromStatus:      from,
		ToStatus:        o.Status,
	}
}

// OrderFulfilledEvent is emitted after a completed order has moved stock
type OrderFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderNumber      string          `json:"order_number"`
	RecipeID         uuid.UUID       `json:"recipe_id"`
	QuantityProduced decimal.Decimal `json:"quantity_produced"`
	MaterialCost     decimal.Decimal `json:"material_cost"`
}

// NewOrderFulfilledEvent creates an OrderFulfilledEvent
func NewOrderFulfilledEvent(o *ProductionOrder, quantityProduced decimal.Decimal) *OrderFulfilledEvent {
	return &OrderFulfilledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderFulfilled, aggregateTypeOrder, o.ID),
		OrderNumber:      o.OrderNumber,
		RecipeID:         o.RecipeID,
		QuantityProduced: quantityProduced,
		MaterialCost:     o.TotalMaterialCost(),
	}
}
