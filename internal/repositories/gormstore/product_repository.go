package gormstore

import (
	"context"
	"errors"
	"strings"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return findByID[models.Product](ctx, r.db, id)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return updateAll(ctx, r.db, product)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Product](ctx, r.db, id)
}

func (r *ProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Keyword != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(strings.ToLower(filter.Keyword)))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	return paginate[models.Product](q, filter.Pagination, "created_at DESC")
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	if delta == 0 {
		return nil
	}

	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	res := q.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the product is gone or the stock was too low.
	if _, err := r.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return repositories.ErrNotFound
		}
		return err
	}
	return repositories.ErrInsufficientStock
}
