package handler

import (
	recipeapp "github.com/craftpos/backend/internal/application/recipe"
	"github.com/gin-gonic/gin"
)

// RecipeHandler handles the recipe and cost engine API endpoints
type RecipeHandler struct {
	BaseHandler
	costs *recipeapp.CostService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(costs *recipeapp.CostService) *RecipeHandler {
	return &RecipeHandler{costs: costs}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	recipes.POST("", h.Create)
	recipes.GET("", h.List)
	recipes.GET("/:id", h.GetByID)
	recipes.DELETE("/:id", h.Deactivate)
	recipes.POST("/:id/components", h.AddComponent)
	recipes.DELETE("/:id/components/:component_id", h.RemoveComponent)
	recipes.POST("/:id/recalculate-cost", h.RecalculateCost)
	recipes.GET("/:id/cost", h.GetCost)
}

// Create creates a new bill of materials
func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeapp.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	recipe, err := h.costs.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, recipe)
}

// GetByID retrieves a recipe with its components
func (h *RecipeHandler) GetByID(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	recipe, err := h.costs.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recipe)
}

// List retrieves recipes with filtering and pagination
func (h *RecipeHandler) List(c *gin.Context) {
	var filter recipeapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.costs.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Deactivate soft-deletes a recipe
func (h *RecipeHandler) Deactivate(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	if err := h.costs.DeactivateRecipe(c.Request.Context(), recipeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddComponent adds a component line to a recipe
func (h *RecipeHandler) AddComponent(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	var req recipeapp.AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	recipe, err := h.costs.AddComponent(c.Request.Context(), recipeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recipe)
}

// RemoveComponent removes a component line from a recipe
func (h *RecipeHandler) RemoveComponent(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}
	componentID, ok := parseIDParam(c, "component_id")
	if !ok {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	recipe, err := h.costs.RemoveComponent(c.Request.Context(), recipeID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recipe)
}

// RecalculateCost recomputes and persists the recipe's total cost
func (h *RecipeHandler) RecalculateCost(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	cost, err := h.costs.RecalculateCost(c.Request.Context(), recipeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cost)
}

// GetCost returns the recipe's total and per-unit cost
func (h *RecipeHandler) GetCost(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	cost, err := h.costs.GetCost(c.Request.Context(), recipeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cost)
}
