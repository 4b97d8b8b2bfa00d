package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craftpos/backend/internal/domain/production"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements production.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its material usage lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	var order production.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("MaterialUsages").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*production.ProductionOrder, error) {
	var order production.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("MaterialUsages").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionOrder, error) {
	var orders []production.ProductionOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&production.ProductionOrder{}).Preload("MaterialUsages"),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds orders in the given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status production.OrderStatus, filter shared.Filter) ([]production.ProductionOrder, error) {
	var orders []production.ProductionOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&production.ProductionOrder{}).
			Preload("MaterialUsages").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order and its usage lines
func (r *GormOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&production.ProductionOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextOrderNumber allocates the next sequential order number.
// Format: PO-YYYY-NNNNNN (e.g. PO-2026-000042)
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("PO-%d-", time.Now().Year())

	var last production.ProductionOrder
	err := r.db.WithContext(ctx).
		Model(&production.ProductionOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.OrderNumber != "" {
		parts := strings.Split(last.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%06d", prefix, nextNum), nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "recipe_id":
			query = query.Where("recipe_id = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		}
	}
	return query
}

var _ production.OrderRepository = (*GormOrderRepository)(nil)
