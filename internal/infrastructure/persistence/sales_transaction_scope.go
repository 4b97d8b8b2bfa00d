package persistence

import (
	"context"

	salesapp "github.com/craftpos/backend/internal/application/sales"
	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesTransactionScope implements the sales TransactionScope using GORM
// transactions. Stock debits and the sale record commit or roll back as one.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos salesapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx})
	})
}

type gormSalesRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the inventory item repository scoped to the current transaction
func (r *gormSalesRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// SaleRepo returns the sale transaction repository scoped to the current transaction
func (r *gormSalesRepositories) SaleRepo() sales.TransactionRepository {
	return NewGormSaleRepository(r.tx)
}

var _ salesapp.TransactionScope = (*GormSalesTransactionScope)(nil)
var _ salesapp.TransactionalRepositories = (*gormSalesRepositories)(nil)
