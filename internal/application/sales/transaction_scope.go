package sales

import (
	"context"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a sale
// touches. Stock debits and the sale record commit or roll back together;
// a failure on any line leaves the ledger untouched.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to
// one database transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the transaction
	ItemRepo() inventory.ItemRepository
	// SaleRepo returns the sale transaction repository scoped to the transaction
	SaleRepo() sales.TransactionRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests where the fake repositories have no transactional behavior.
type NoOpTransactionScope struct {
	itemRepo inventory.ItemRepository
	saleRepo sales.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(itemRepo inventory.ItemRepository, saleRepo sales.TransactionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{itemRepo: itemRepo, saleRepo: saleRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// SaleRepo returns the sale transaction repository
func (s *NoOpTransactionScope) SaleRepo() sales.TransactionRepository {
	return s.saleRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
