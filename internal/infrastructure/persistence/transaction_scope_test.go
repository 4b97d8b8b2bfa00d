package persistence

import (
	"context"
	"errors"
	"testing"

	productionapp "github.com/craftpos/backend/internal/application/production"
	salesapp "github.com/craftpos/backend/internal/application/sales"
	"github.com/craftpos/backend/internal/domain/checkout"
	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/production"
	"github.com/craftpos/backend/internal/domain/sales"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&inventory.InventoryItem{},
		&sales.SaleTransaction{},
		&sales.SaleLineItem{},
		&production.ProductionOrder{},
		&production.MaterialUsage{},
	)
	require.NoError(t, err)

	return db
}

func seedItem(t *testing.T, db *gorm.DB, name, sku string, kind inventory.ItemKind, stock int64) *inventory.InventoryItem {
	item, err := inventory.NewInventoryItem(name, sku, kind, "pcs")
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, item.Restock(decimal.NewFromInt(stock)))
	}
	require.NoError(t, NewGormItemRepository(db).Save(context.Background(), item))
	return item
}

func pricedReceipt(t *testing.T, item *inventory.InventoryItem, qty int64) *checkout.PricedReceipt {
	receipt, err := checkout.PriceCart(
		[]checkout.CartLine{{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  decimal.NewFromInt(qty),
			UnitPrice: valueobject.NewMoneyIDRFromFloat(5000),
		}},
		checkout.NoDiscount(),
		checkout.TaxPolicy{},
	)
	require.NoError(t, err)
	return receipt
}

func TestGormSalesTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits stock debit and sale record together", func(t *testing.T) {
		db := setupScopeTestDB(t)
		item := seedItem(t, db, "Americano", "DRINK-001", inventory.KindFinishedGood, 10)
		scope := NewGormSalesTransactionScope(db)

		err := scope.Execute(ctx, func(repos salesapp.TransactionalRepositories) error {
			stocked, err := repos.ItemRepo().FindByID(ctx, item.ID)
			if err != nil {
				return err
			}
			if err := stocked.ApplyDelta(decimal.NewFromInt(-3)); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, stocked); err != nil {
				return err
			}

			receipt := pricedReceipt(t, item, 3)
			sale, err := sales.NewSaleTransaction(
				"TX-2026-000001", receipt,
				receipt.Total, valueobject.NewMoneyIDRFromFloat(0),
				sales.PaymentCash, "tester",
			)
			if err != nil {
				return err
			}
			return repos.SaleRepo().Save(ctx, sale)
		})
		require.NoError(t, err)

		reloaded, err := NewGormItemRepository(db).FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(7)),
			"expected stock 7, got %s", reloaded.CurrentStock)

		var saleCount int64
		require.NoError(t, db.Model(&sales.SaleTransaction{}).Count(&saleCount).Error)
		assert.Equal(t, int64(1), saleCount)

		var lineCount int64
		require.NoError(t, db.Model(&sales.SaleLineItem{}).Count(&lineCount).Error)
		assert.Equal(t, int64(1), lineCount)
	})

	t.Run("rolls back stock debit when the sale fails", func(t *testing.T) {
		db := setupScopeTestDB(t)
		item := seedItem(t, db, "Latte", "DRINK-002", inventory.KindFinishedGood, 10)
		scope := NewGormSalesTransactionScope(db)

		err := scope.Execute(ctx, func(repos salesapp.TransactionalRepositories) error {
			stocked, err := repos.ItemRepo().FindByID(ctx, item.ID)
			if err != nil {
				return err
			}
			if err := stocked.ApplyDelta(decimal.NewFromInt(-5)); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, stocked); err != nil {
				return err
			}
			return errors.New("payment capture failed")
		})
		require.Error(t, err)

		reloaded, err := NewGormItemRepository(db).FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(10)),
			"debit should have rolled back, got %s", reloaded.CurrentStock)

		var saleCount int64
		require.NoError(t, db.Model(&sales.SaleTransaction{}).Count(&saleCount).Error)
		assert.Zero(t, saleCount)
	})
}

func TestGormProductionTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits material debit, output credit, and order together", func(t *testing.T) {
		db := setupScopeTestDB(t)
		material := seedItem(t, db, "Coffee Beans", "RAW-001", inventory.KindRawMaterial, 100)
		output := seedItem(t, db, "Espresso Shot", "FG-001", inventory.KindFinishedGood, 0)
		scope := NewGormProductionTransactionScope(db)

		order, err := production.NewProductionOrder("PO-2026-000001", uuid.New(), decimal.NewFromInt(10), "tester")
		require.NoError(t, err)
		require.NoError(t, NewGormOrderRepository(db).Save(ctx, order))
		require.NoError(t, order.Start())

		err = scope.Execute(ctx, func(repos productionapp.TransactionalRepositories) error {
			mat, err := repos.ItemRepo().FindByID(ctx, material.ID)
			if err != nil {
				return err
			}
			if err := mat.ApplyDelta(decimal.NewFromInt(-20)); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, mat); err != nil {
				return err
			}

			out, err := repos.ItemRepo().FindByID(ctx, output.ID)
			if err != nil {
				return err
			}
			if err := out.ApplyDelta(decimal.NewFromInt(10)); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, out); err != nil {
				return err
			}

			if err := order.Complete(); err != nil {
				return err
			}
			return repos.OrderRepo().Save(ctx, order)
		})
		require.NoError(t, err)

		itemRepo := NewGormItemRepository(db)
		mat, err := itemRepo.FindByID(ctx, material.ID)
		require.NoError(t, err)
		assert.True(t, mat.CurrentStock.Equal(decimal.NewFromInt(80)))

		out, err := itemRepo.FindByID(ctx, output.ID)
		require.NoError(t, err)
		assert.True(t, out.CurrentStock.Equal(decimal.NewFromInt(10)))

		saved, err := NewGormOrderRepository(db).FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, production.StatusCompleted, saved.Status)
	})

	t.Run("rolls back all stock movements when the order save fails", func(t *testing.T) {
		db := setupScopeTestDB(t)
		material := seedItem(t, db, "Milk", "RAW-002", inventory.KindRawMaterial, 50)
		scope := NewGormProductionTransactionScope(db)

		err := scope.Execute(ctx, func(repos productionapp.TransactionalRepositories) error {
			mat, err := repos.ItemRepo().FindByID(ctx, material.ID)
			if err != nil {
				return err
			}
			if err := mat.ApplyDelta(decimal.NewFromInt(-30)); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, mat); err != nil {
				return err
			}
			return errors.New("order persistence failed")
		})
		require.Error(t, err)

		mat, err := NewGormItemRepository(db).FindByID(ctx, material.ID)
		require.NoError(t, err)
		assert.True(t, mat.CurrentStock.Equal(decimal.NewFromInt(50)),
			"material debit should have rolled back, got %s", mat.CurrentStock)
	})
}
