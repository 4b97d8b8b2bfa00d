package production

import (
	"context"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the repositories a
// production fulfillment touches. Material debits, the finished-good
// credit, and the order status change commit or roll back together.
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
	// OrderRepo returns the production order repository scoped to the transaction
	OrderRepo() production.OrderRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	itemRepo  inventory.ItemRepository
	orderRepo production.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(itemRepo inventory.ItemRepository, orderRepo production.OrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{itemRepo: itemRepo, orderRepo: orderRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// OrderRepo returns the production order repository
func (s *NoOpTransactionScope) OrderRepo() production.OrderRepository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
