package persistence

import (
	"context"

	productionapp "github.com/craftpos/backend/internal/application/production"
	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormProductionTransactionScope implements the production TransactionScope
// using GORM transactions. Material debits, the finished-good credit, and the
// order status change commit or roll back as one.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos productionapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProductionRepositories{tx: tx})
	})
}

type gormProductionRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the inventory item repository scoped to the current transaction
func (r *gormProductionRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// OrderRepo returns the production order repository scoped to the current transaction
func (r *gormProductionRepositories) OrderRepo() production.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

var _ productionapp.TransactionScope = (*GormProductionTransactionScope)(nil)
var _ productionapp.TransactionalRepositories = (*gormProductionRepositories)(nil)
