package sales

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/sales"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryItemRepo is an in-memory inventory.ItemRepository with snapshot
// support so the no-op scope can emulate rollback in tests.
type memoryItemRepo struct {
	items   map[uuid.UUID]*inventory.InventoryItem
	saveErr error
}

func newMemoryItemRepo() *memoryItemRepo {
	return &memoryItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *memoryItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *memoryItemRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *memoryItemRepo) FindBySKU(_ context.Context, _ string) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *memoryItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *memoryItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) FindBelowMinimum(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *memoryItemRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memoryItemRepo) ExistsBySKU(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *memoryItemRepo) snapshot() map[uuid.UUID]decimal.Decimal {
	snap := make(map[uuid.UUID]decimal.Decimal, len(r.items))
	for id, item := range r.items {
		snap[id] = item.CurrentStock
	}
	return snap
}

func (r *memoryItemRepo) restore(snap map[uuid.UUID]decimal.Decimal) {
	for id, stock := range snap {
		if item, ok := r.items[id]; ok {
			item.CurrentStock = stock
		}
	}
}

// memorySaleRepo is an in-memory sales.TransactionRepository
type memorySaleRepo struct {
	txs     map[uuid.UUID]*sales.SaleTransaction
	seq     int
	saveErr error
}

func newMemorySaleRepo() *memorySaleRepo {
	return &memorySaleRepo{txs: make(map[uuid.UUID]*sales.SaleTransaction)}
}

func (r *memorySaleRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.SaleTransaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return tx, nil
}

func (r *memorySaleRepo) FindByTransactionNumber(_ context.Context, number string) (*sales.SaleTransaction, error) {
	for _, tx := range r.txs {
		if tx.TransactionNumber == number {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memorySaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]sales.SaleTransaction, error) {
	result := make([]sales.SaleTransaction, 0, len(r.txs))
	for _, tx := range r.txs {
		result = append(result, *tx)
	}
	return result, nil
}

func (r *memorySaleRepo) FindByDateRange(_ context.Context, _, _ time.Time, _ shared.Filter) ([]sales.SaleTransaction, error) {
	return nil, nil
}

func (r *memorySaleRepo) Save(_ context.Context, tx *sales.SaleTransaction) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.txs[tx.ID] = tx
	return nil
}

func (r *memorySaleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.txs)), nil
}

func (r *memorySaleRepo) NextTransactionNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("TX-2026-%06d", r.seq), nil
}

// rollbackScope emulates transactional rollback over the in-memory repos
type rollbackScope struct {
	itemRepo *memoryItemRepo
	saleRepo *memorySaleRepo
}

func (s *rollbackScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snap := s.itemRepo.snapshot()
	if err := fn(s); err != nil {
		s.itemRepo.restore(snap)
		return err
	}
	return nil
}

func (s *rollbackScope) ItemRepo() inventory.ItemRepository    { return s.itemRepo }
func (s *rollbackScope) SaleRepo() sales.TransactionRepository { return s.saleRepo }

func seedItem(t *testing.T, repo *memoryItemRepo, name, sku string, stock int64) uuid.UUID {
	t.Helper()
	item, err := inventory.NewInventoryItem(name, sku, inventory.KindFinishedGood, "pcs")
	require.NoError(t, err)
	item.CurrentStock = decimal.NewFromInt(stock)
	item.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), item))
	return item.ID
}

func newTestCheckout(itemRepo *memoryItemRepo, saleRepo *memorySaleRepo) *CheckoutService {
	scope := &rollbackScope{itemRepo: itemRepo, saleRepo: saleRepo}
	return NewCheckoutService(scope, saleRepo, zap.NewNop())
}

func cartLine(itemID uuid.UUID, qty, price string) CartLineRequest {
	return CartLineRequest{ItemID: itemID.String(), Quantity: qty, UnitPrice: price}
}

func TestCheckoutService_PriceCart(t *testing.T) {
	t.Run("prices without touching stock", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		itemID := seedItem(t, itemRepo, "Latte", "FG-001", 10)

		resp, err := svc.PriceCart(context.Background(), PriceCartRequest{
			Lines:    []CartLineRequest{cartLine(itemID, "1", "100000")},
			Discount: DiscountRequest{Type: "percentage", Value: "10"},
			Tax:      TaxRequest{Enabled: true, Rate: "10"},
		})

		require.NoError(t, err)
		assert.Equal(t, "100000", resp.Subtotal)
		assert.Equal(t, "10000", resp.DiscountAmount)
		assert.Equal(t, "9000", resp.TaxAmount)
		assert.Equal(t, "99000", resp.Total)

		item, err := itemRepo.FindByID(context.Background(), itemID)
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(10)), "pricing must not move stock")
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		svc := newTestCheckout(newMemoryItemRepo(), newMemorySaleRepo())

		_, err := svc.PriceCart(context.Background(), PriceCartRequest{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})
}

func TestCheckoutService_CompleteSale(t *testing.T) {
	t.Run("debits stock and records the sale", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		itemID := seedItem(t, itemRepo, "Latte", "FG-001", 10)

		resp, err := svc.CompleteSale(context.Background(), CompleteSaleRequest{
			Lines:         []CartLineRequest{cartLine(itemID, "2", "25000")},
			PaymentAmount: "60000",
		})

		require.NoError(t, err)
		assert.Equal(t, "TX-2026-000001", resp.TransactionNumber)
		assert.Equal(t, "50000", resp.TotalAmount)
		assert.Equal(t, "10000", resp.ChangeAmount)
		assert.Equal(t, "cash", resp.PaymentMethod)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Latte", resp.Lines[0].ItemName)

		item, err := itemRepo.FindByID(context.Background(), itemID)
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(8)))
	})

	t.Run("insufficient payment leaves stock untouched", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		itemID := seedItem(t, itemRepo, "Latte", "FG-001", 10)

		_, err := svc.CompleteSale(context.Background(), CompleteSaleRequest{
			Lines:         []CartLineRequest{cartLine(itemID, "2", "25000")},
			PaymentAmount: "40000",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_PAYMENT", domainErr.Code)

		item, err := itemRepo.FindByID(context.Background(), itemID)
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(10)))
		assert.Empty(t, saleRepo.txs)
	})

	t.Run("stock shortfall reports every short line", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		latteID := seedItem(t, itemRepo, "Latte", "FG-001", 1)
		croissantID := seedItem(t, itemRepo, "Croissant", "FG-002", 0)

		_, err := svc.CompleteSale(context.Background(), CompleteSaleRequest{
			Lines: []CartLineRequest{
				cartLine(latteID, "2", "25000"),
				cartLine(croissantID, "1", "18000"),
			},
			PaymentAmount: "100000",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		shortfalls, ok := domainErr.Details.([]shared.Shortfall)
		require.True(t, ok)
		assert.Len(t, shortfalls, 2)
		assert.Empty(t, saleRepo.txs)
	})

	t.Run("store failure rolls back stock debits", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		itemID := seedItem(t, itemRepo, "Latte", "FG-001", 10)
		saleRepo.saveErr = errors.New("connection reset")

		_, err := svc.CompleteSale(context.Background(), CompleteSaleRequest{
			Lines:         []CartLineRequest{cartLine(itemID, "2", "25000")},
			PaymentAmount: "60000",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STORE_FAILURE", domainErr.Code)

		item, err := itemRepo.FindByID(context.Background(), itemID)
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(10)), "debit must be rolled back")
	})

	t.Run("unknown item fails the whole sale", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		itemID := seedItem(t, itemRepo, "Latte", "FG-001", 10)

		_, err := svc.CompleteSale(context.Background(), CompleteSaleRequest{
			Lines: []CartLineRequest{
				cartLine(itemID, "1", "25000"),
				cartLine(uuid.New(), "1", "18000"),
			},
			PaymentAmount: "100000",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		item, findErr := itemRepo.FindByID(context.Background(), itemID)
		require.NoError(t, findErr)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(10)))
	})

	t.Run("repeated item lines are aggregated in the stock check", func(t *testing.T) {
		itemRepo := newMemoryItemRepo()
		saleRepo := newMemorySaleRepo()
		svc := newTestCheckout(itemRepo, saleRepo)
		itemID := seedItem(t, itemRepo, "Latte", "FG-001", 3)

		_, err := svc.CompleteSale(context.Background(), CompleteSaleRequest{
			Lines: []CartLineRequest{
				cartLine(itemID, "2", "25000"),
				cartLine(itemID, "2", "25000"),
			},
			PaymentAmount: "200000",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})
}
