package handler

import (
	inventoryapp "github.com/craftpos/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles the inventory ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	ledger *inventoryapp.LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *inventoryapp.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterRoutes registers the inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/inventory/items")
	items.POST("", h.Register)
	items.GET("", h.List)
	items.GET("/:id", h.GetByID)
	items.PATCH("/:id", h.Update)
	items.DELETE("/:id", h.Deactivate)
	items.GET("/:id/stock", h.ReadStock)
	items.POST("/:id/adjust-stock", h.AdjustStock)
	items.POST("/:id/restock", h.Restock)
}

// Register registers a new stockable item
func (h *InventoryHandler) Register(c *gin.Context) {
	var req inventoryapp.RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.ledger.RegisterItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID retrieves an item by ID
func (h *InventoryHandler) GetByID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.ledger.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List retrieves items with filtering and pagination
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventoryapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update updates item master data
func (h *InventoryHandler) Update(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req inventoryapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.ledger.UpdateItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Deactivate soft-deletes an item
func (h *InventoryHandler) Deactivate(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.ledger.DeactivateItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReadStock returns the current stock of an item
func (h *InventoryHandler) ReadStock(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	stock, err := h.ledger.ReadStock(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// AdjustStock applies a signed delta to the item's stock
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stock, err := h.ledger.AdjustStock(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// Restock adds a positive quantity to the item's stock
func (h *InventoryHandler) Restock(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req inventoryapp.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stock, err := h.ledger.Restock(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}
