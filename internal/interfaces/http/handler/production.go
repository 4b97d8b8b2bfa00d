package handler

import (
	productionapp "github.com/craftpos/backend/internal/application/production"
	"github.com/gin-gonic/gin"
)

// ProductionHandler handles the production order API endpoints
type ProductionHandler struct {
	BaseHandler
	fulfillment *productionapp.FulfillmentService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(fulfillment *productionapp.FulfillmentService) *ProductionHandler {
	return &ProductionHandler{fulfillment: fulfillment}
}

// RegisterRoutes registers the production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/production/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/transition", h.Transition)
	orders.POST("/:id/complete", h.Complete)
}

// Create plans a new production order
func (h *ProductionHandler) Create(c *gin.Context) {
	var req productionapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.fulfillment.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves an order by ID
func (h *ProductionHandler) GetByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.fulfillment.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves orders with filtering and pagination
func (h *ProductionHandler) List(c *gin.Context) {
	var filter productionapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.fulfillment.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Transition moves an order to a target status. A transition to completed
// executes the fulfillment, so stock moves together with the status change.
func (h *ProductionHandler) Transition(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req productionapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.fulfillment.TransitionOrder(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Complete fulfills an order directly
func (h *ProductionHandler) Complete(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.fulfillment.CompleteProduction(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
