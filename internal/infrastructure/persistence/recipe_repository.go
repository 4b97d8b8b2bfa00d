package persistence

import (
	"context"
	"errors"

	"github.com/craftpos/backend/internal/domain/recipe"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecipeRepository implements recipe.Repository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByID finds a recipe with its components
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Components").
		First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindAll finds recipes matching the filter
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recipe.Recipe, error) {
	var recipes []recipe.Recipe
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&recipe.Recipe{}).Preload("Components"),
		filter,
	)
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByFinishedGood finds recipes yielding the given finished-good item
func (r *GormRecipeRepository) FindByFinishedGood(ctx context.Context, itemID uuid.UUID) ([]recipe.Recipe, error) {
	var recipes []recipe.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("finished_good_id = ?", itemID).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindReferencingItem finds recipes with a component referencing the item
func (r *GormRecipeRepository) FindReferencingItem(ctx context.Context, itemID uuid.UUID) ([]recipe.Recipe, error) {
	var recipes []recipe.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("id IN (?)", r.db.Model(&recipe.RecipeComponent{}).
			Select("recipe_id").
			Where("item_id = ?", itemID)).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Save creates or updates a recipe and its component rows
func (r *GormRecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(rec).Error
}

// RemoveComponentRow deletes a single component row
func (r *GormRecipeRepository) RemoveComponentRow(ctx context.Context, componentID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&recipe.RecipeComponent{}, "id = ?", componentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts recipes matching the filter
func (r *GormRecipeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&recipe.Recipe{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRecipeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RecipeSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormRecipeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "finished_good_id":
			query = query.Where("finished_good_id = ?", value)
		}
	}
	return query
}

var _ recipe.Repository = (*GormRecipeRepository)(nil)
