package handler

import (
	"strconv"

	salesapp "github.com/craftpos/backend/internal/application/sales"
	"github.com/craftpos/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles the checkout and sales API endpoints. When a
// request omits the tax block entirely, the configured default tax policy
// applies; an explicit tax block always wins, including an explicit disable.
type CheckoutHandler struct {
	BaseHandler
	checkout   *salesapp.CheckoutService
	defaultTax config.CheckoutConfig
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout *salesapp.CheckoutService, defaultTax config.CheckoutConfig) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, defaultTax: defaultTax}
}

// RegisterRoutes registers the checkout and sales routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	co := rg.Group("/checkout")
	co.POST("/price", h.PriceCart)
	co.POST("/complete", h.CompleteSale)

	sales := rg.Group("/sales")
	sales.GET("", h.ListSales)
	sales.GET("/:id", h.GetSale)
}

// priceCartRequest mirrors the application request with an optional tax
// block so an omitted block can fall back to the configured default.
type priceCartRequest struct {
	Lines    []salesapp.CartLineRequest `json:"lines" binding:"required,dive"`
	Discount salesapp.DiscountRequest   `json:"discount"`
	Tax      *salesapp.TaxRequest       `json:"tax"`
}

type completeSaleRequest struct {
	Lines         []salesapp.CartLineRequest `json:"lines" binding:"required,dive"`
	Discount      salesapp.DiscountRequest   `json:"discount"`
	Tax           *salesapp.TaxRequest       `json:"tax"`
	PaymentAmount string                     `json:"payment_amount" binding:"required"`
	PaymentMethod string                     `json:"payment_method" binding:"omitempty,oneof=cash card qris transfer"`
	CashierName   string                     `json:"cashier_name,omitempty"`
}

func (h *CheckoutHandler) resolveTax(tax *salesapp.TaxRequest) salesapp.TaxRequest {
	if tax != nil {
		return *tax
	}
	return salesapp.TaxRequest{
		Enabled: h.defaultTax.TaxEnabled,
		Rate:    strconv.FormatFloat(h.defaultTax.TaxRatePercent, 'f', -1, 64),
	}
}

// PriceCart prices a cart without touching stock or recording anything
func (h *CheckoutHandler) PriceCart(c *gin.Context) {
	var req priceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.checkout.PriceCart(c.Request.Context(), salesapp.PriceCartRequest{
		Lines:    req.Lines,
		Discount: req.Discount,
		Tax:      h.resolveTax(req.Tax),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// CompleteSale prices a cart, validates payment, debits stock, and records
// the sale atomically.
func (h *CheckoutHandler) CompleteSale(c *gin.Context) {
	var req completeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.checkout.CompleteSale(c.Request.Context(), salesapp.CompleteSaleRequest{
		Lines:         req.Lines,
		Discount:      req.Discount,
		Tax:           h.resolveTax(req.Tax),
		PaymentAmount: req.PaymentAmount,
		PaymentMethod: req.PaymentMethod,
		CashierName:   req.CashierName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetSale retrieves a recorded sale by ID
func (h *CheckoutHandler) GetSale(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.checkout.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListSales retrieves recorded sales, newest first
func (h *CheckoutHandler) ListSales(c *gin.Context) {
	var filter salesapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.checkout.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithPage(c, page.Items, page.Total, page.Page, page.PageSize)
}
