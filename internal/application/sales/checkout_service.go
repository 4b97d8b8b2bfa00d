package sales

import (
	"context"

	"github.com/craftpos/backend/internal/domain/checkout"
	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/sales"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutService owns the checkout use cases. PriceCart is a pure preview
// with no side effects; CompleteSale prices, validates payment and stock,
// then debits every line and records the sale inside one transaction scope.
type CheckoutService struct {
	scope          TransactionScope
	saleRepo       sales.TransactionRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope, saleRepo sales.TransactionRepository, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		scope:    scope,
		saleRepo: saleRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PriceCart prices a cart without touching stock or recording anything.
// Item names are resolved for display when the item exists; pricing itself
// uses only the quantities and unit prices in the request.
func (s *CheckoutService) PriceCart(ctx context.Context, req PriceCartRequest) (*ReceiptResponse, error) {
	receipt, err := s.price(req.Lines, req.Discount, req.Tax)
	if err != nil {
		return nil, err
	}
	resp := toReceiptResponse(receipt)
	return &resp, nil
}

func (s *CheckoutService) price(lineReqs []CartLineRequest, discountReq DiscountRequest, taxReq TaxRequest) (*checkout.PricedReceipt, error) {
	if len(lineReqs) == 0 {
		return nil, shared.ErrEmptyCart
	}
	lines, err := toCartLines(lineReqs)
	if err != nil {
		return nil, err
	}
	discount, err := toDiscount(discountReq)
	if err != nil {
		return nil, err
	}
	tax, err := toTaxPolicy(taxReq)
	if err != nil {
		return nil, err
	}
	return checkout.PriceCart(lines, discount, tax)
}

// CompleteSale executes a checkout end to end. Validation order: empty
// cart, pricing, payment sufficiency, then stock coverage across all lines.
// The stock check reports every short line at once, not just the first.
// Stock debits and the sale record commit atomically.
func (s *CheckoutService) CompleteSale(ctx context.Context, req CompleteSaleRequest) (*SaleResponse, error) {
	receipt, err := s.price(req.Lines, req.Discount, req.Tax)
	if err != nil {
		return nil, err
	}

	paymentAmount, err := decimal.NewFromString(req.PaymentAmount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Invalid payment_amount value")
	}
	payment := valueobject.NewMoneyIDR(paymentAmount)

	change, err := checkout.ValidatePayment(receipt, payment)
	if err != nil {
		return nil, err
	}

	method := sales.PaymentMethod(req.PaymentMethod)
	if req.PaymentMethod == "" {
		method = sales.PaymentCash
	}

	var recorded *sales.SaleTransaction
	txErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err := s.loadItems(ctx, repos.ItemRepo(), receipt)
		if err != nil {
			return err
		}

		// resolve display names from the ledger
		for idx := range receipt.Lines {
			if item, ok := items[receipt.Lines[idx].ItemID]; ok {
				receipt.Lines[idx].ItemName = item.Name
			}
		}

		if err := validateStock(receipt, items); err != nil {
			return err
		}

		for _, line := range receipt.Lines {
			item := items[line.ItemID]
			if err := item.ApplyDelta(line.Quantity.Neg()); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return shared.NewStoreFailure(err)
			}
		}

		number, err := repos.SaleRepo().NextTransactionNumber(ctx)
		if err != nil {
			return shared.NewStoreFailure(err)
		}

		tx, err := sales.NewSaleTransaction(number, receipt, payment, change, method, req.CashierName)
		if err != nil {
			return err
		}

		if err := repos.SaleRepo().Save(ctx, tx); err != nil {
			return shared.NewStoreFailure(err)
		}

		recorded = tx
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("sale completed",
		zap.String("transaction_number", recorded.TransactionNumber),
		zap.String("total", recorded.TotalAmount.Amount().String()),
		zap.Int("lines", len(recorded.LineItems)))

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, recorded.GetDomainEvents()...)
		recorded.ClearDomainEvents()
	}

	resp := ToSaleResponse(recorded)
	return &resp, nil
}

// loadItems fetches every referenced item, treating unknown or inactive
// items as NOT_FOUND.
func (s *CheckoutService) loadItems(ctx context.Context, repo inventory.ItemRepository, receipt *checkout.PricedReceipt) (map[uuid.UUID]*inventory.InventoryItem, error) {
	items := make(map[uuid.UUID]*inventory.InventoryItem, len(receipt.Lines))
	for _, line := range receipt.Lines {
		if _, ok := items[line.ItemID]; ok {
			continue
		}
		item, err := repo.FindActiveByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		items[line.ItemID] = item
	}
	return items, nil
}

// validateStock checks coverage for all lines and reports every shortfall
func validateStock(receipt *checkout.PricedReceipt, items map[uuid.UUID]*inventory.InventoryItem) error {
	// aggregate quantities per item in case an item appears on several lines
	required := make(map[uuid.UUID]decimal.Decimal, len(receipt.Lines))
	for _, line := range receipt.Lines {
		required[line.ItemID] = required[line.ItemID].Add(line.Quantity)
	}

	var shortfalls []shared.Shortfall
	for itemID, qty := range required {
		item := items[itemID]
		if !item.CanFulfill(qty) {
			shortfalls = append(shortfalls, shared.Shortfall{
				ItemID:    item.ID.String(),
				ItemName:  item.Name,
				Required:  qty.String(),
				Available: item.CurrentStock.String(),
			})
		}
	}
	if len(shortfalls) > 0 {
		return shared.NewInsufficientStockError(shortfalls)
	}
	return nil
}

// GetSale retrieves a recorded sale by ID
func (s *CheckoutService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	tx, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(tx)
	return &resp, nil
}

// ListSales retrieves recorded sales, newest first
func (s *CheckoutService) ListSales(ctx context.Context, filter ListFilter) (*shared.Paginated[SaleResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "occurred_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	var (
		txs []sales.SaleTransaction
		err error
	)
	if filter.From != nil && filter.To != nil {
		txs, err = s.saleRepo.FindByDateRange(ctx, *filter.From, *filter.To, domainFilter)
	} else {
		txs, err = s.saleRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.NewStoreFailure(err)
	}

	responses := make([]SaleResponse, 0, len(txs))
	for idx := range txs {
		responses = append(responses, ToSaleResponse(&txs[idx]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}
