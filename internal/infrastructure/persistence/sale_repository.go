package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craftpos/backend/internal/domain/sales"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.TransactionRepository using GORM.
// Sale transactions are append-only; the repository exposes no update or
// delete path.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a transaction with its line items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SaleTransaction, error) {
	var tx sales.SaleTransaction
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByTransactionNumber finds a transaction by its receipt number
func (r *GormSaleRepository) FindByTransactionNumber(ctx context.Context, number string) (*sales.SaleTransaction, error) {
	var tx sales.SaleTransaction
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("transaction_number = ?", number).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll finds transactions matching the filter, newest first
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.SaleTransaction, error) {
	var txs []sales.SaleTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.SaleTransaction{}).Preload("LineItems"),
		filter,
	)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByDateRange finds transactions within [from, to)
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]sales.SaleTransaction, error) {
	var txs []sales.SaleTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.SaleTransaction{}).
			Preload("LineItems").
			Where("occurred_at >= ? AND occurred_at < ?", from, to),
		filter,
	)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Save persists a new transaction and its lines
func (r *GormSaleRepository) Save(ctx context.Context, tx *sales.SaleTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// Count counts transactions matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.SaleTransaction{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextTransactionNumber allocates the next sequential receipt number.
// Format: TX-YYYY-NNNNNN (e.g. TX-2026-000042)
func (r *GormSaleRepository) NextTransactionNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("TX-%d-", time.Now().Year())

	var last sales.SaleTransaction
	err := r.db.WithContext(ctx).
		Model(&sales.SaleTransaction{}).
		Where("transaction_number LIKE ?", prefix+"%").
		Order("transaction_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.TransactionNumber != "" {
		parts := strings.Split(last.TransactionNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%06d", prefix, nextNum), nil
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "occurred_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "cashier_name":
			query = query.Where("cashier_name = ?", value)
		}
	}
	return query
}

var _ sales.TransactionRepository = (*GormSaleRepository)(nil)
