package recipe

import (
	"time"

	"github.com/craftpos/backend/internal/domain/recipe"
)

// CreateRecipeRequest creates a new bill of materials
type CreateRecipeRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	YieldQuantity  string  `json:"yield_quantity" binding:"required,decimal"`
	FinishedGoodID *string `json:"finished_good_id,omitempty"`
}

// AddComponentRequest adds a component line to a recipe
type AddComponentRequest struct {
	ItemID           string  `json:"item_id" binding:"required,uuid"`
	QuantityRequired string  `json:"quantity_required" binding:"required,decimal"`
	CostOverride     *string `json:"cost_override,omitempty" binding:"omitempty,decimal"`
	Notes            string  `json:"notes,omitempty"`
}

// ListFilter filters the recipe listing
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ComponentResponse is the API representation of a component line
type ComponentResponse struct {
	ID               string  `json:"id"`
	ItemID           string  `json:"item_id"`
	QuantityRequired string  `json:"quantity_required"`
	CostOverride     *string `json:"cost_override,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// RecipeResponse is the API representation of a recipe
type RecipeResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	FinishedGoodID *string             `json:"finished_good_id,omitempty"`
	YieldQuantity  string              `json:"yield_quantity"`
	TotalCost      string              `json:"total_cost"`
	Active         bool                `json:"active"`
	Components     []ComponentResponse `json:"components"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CostResponse is the cost view of a recipe
type CostResponse struct {
	RecipeID  string `json:"recipe_id"`
	TotalCost string `json:"total_cost"`
	// UnitCost is TotalCost divided by the yield quantity
	UnitCost string `json:"unit_cost"`
}

// ToRecipeResponse maps a domain recipe to its API representation
func ToRecipeResponse(r *recipe.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:            r.ID.String(),
		Name:          r.Name,
		YieldQuantity: r.YieldQuantity.String(),
		TotalCost:     r.TotalCost.String(),
		Active:        r.Active,
		Components:    make([]ComponentResponse, 0, len(r.Components)),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.FinishedGoodID != nil {
		id := r.FinishedGoodID.String()
		resp.FinishedGoodID = &id
	}
	for _, c := range r.Components {
		cr := ComponentResponse{
			ID:               c.ID.String(),
			ItemID:           c.ItemID.String(),
			QuantityRequired: c.QuantityRequired.String(),
			Notes:            c.Notes,
		}
		if c.CostOverride.Valid {
			override := c.CostOverride.Decimal.String()
			cr.CostOverride = &override
		}
		resp.Components = append(resp.Components, cr)
	}
	return resp
}

// ToCostResponse maps the cost view of a recipe
func ToCostResponse(r *recipe.Recipe) CostResponse {
	return CostResponse{
		RecipeID:  r.ID.String(),
		TotalCost: r.TotalCost.String(),
		UnitCost:  r.TotalCost.Div(r.YieldQuantity).String(),
	}
}
