package production

import (
	"time"

	"github.com/craftpos/backend/internal/domain/production"
)

// CreateOrderRequest plans a new production order
type CreateOrderRequest struct {
	RecipeID          string     `json:"recipe_id" binding:"required,uuid"`
	QuantityToProduce string     `json:"quantity_to_produce" binding:"required,decimal"`
	Priority          string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	PlannedDate       *time.Time `json:"planned_date,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedBy         string     `json:"created_by,omitempty"`
}

// TransitionRequest moves an order to a target status
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=planned in_progress completed cancelled"`
}

// ListFilter filters the order listing
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// MaterialUsageResponse is one consumed material line
type MaterialUsageResponse struct {
	ItemID           string `json:"item_id"`
	QuantityPlanned  string `json:"quantity_planned"`
	QuantityUsed     string `json:"quantity_used"`
	UnitCostSnapshot string `json:"unit_cost_snapshot"`
}

// OrderResponse is the API representation of a production order
type OrderResponse struct {
	ID                string                  `json:"id"`
	OrderNumber       string                  `json:"order_number"`
	RecipeID          string                  `json:"recipe_id"`
	QuantityToProduce string                  `json:"quantity_to_produce"`
	Status            string                  `json:"status"`
	Priority          string                  `json:"priority"`
	PlannedDate       *time.Time              `json:"planned_date,omitempty"`
	StartedAt         *time.Time              `json:"started_at,omitempty"`
	CompletedAt       *time.Time              `json:"completed_at,omitempty"`
	Notes             string                  `json:"notes,omitempty"`
	CreatedBy         string                  `json:"created_by,omitempty"`
	MaterialUsages    []MaterialUsageResponse `json:"material_usages,omitempty"`
	TotalMaterialCost string                  `json:"total_material_cost"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// ToOrderResponse maps a domain order to its API representation
func ToOrderResponse(o *production.ProductionOrder) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID.String(),
		OrderNumber:       o.OrderNumber,
		RecipeID:          o.RecipeID.String(),
		QuantityToProduce: o.QuantityToProduce.String(),
		Status:            string(o.Status),
		Priority:          string(o.Priority),
		PlannedDate:       o.PlannedDate,
		StartedAt:         o.StartedAt,
		CompletedAt:       o.CompletedAt,
		Notes:             o.Notes,
		CreatedBy:         o.CreatedBy,
		TotalMaterialCost: o.TotalMaterialCost().String(),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, u := range o.MaterialUsages {
		resp.MaterialUsages = append(resp.MaterialUsages, MaterialUsageResponse{
			ItemID:           u.ItemID.String(),
			QuantityPlanned:  u.QuantityPlanned.String(),
			QuantityUsed:     u.QuantityUsed.String(),
			UnitCostSnapshot: u.UnitCostSnapshot.String(),
		})
	}
	return resp
}
