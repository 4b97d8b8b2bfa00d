package sales

import (
	"context"
	"time"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionRepository defines the persistence interface for sales.
// Transactions are append-only; there is no update or delete.
type TransactionRepository interface {
	// FindByID finds a transaction with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*SaleTransaction, error)

	// FindByTransactionNumber finds a transaction by its receipt number
	FindByTransactionNumber(ctx context.Context, number string) (*SaleTransaction, error)

	// FindAll finds transactions matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]SaleTransaction, error)

	// FindByDateRange finds transactions within [from, to)
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]SaleTransaction, error)

	// Save persists a new transaction and its lines
	Save(ctx context.Context, tx *SaleTransaction) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextTransactionNumber allocates the next sequential receipt number
	NextTransactionNumber(ctx context.Context) (string, error)
}
