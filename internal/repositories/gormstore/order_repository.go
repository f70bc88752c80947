package gormstore

import (
	"context"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return findByID[models.Order](ctx, r.db, id)
}

func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	return updateAll(ctx, r.db, order)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Order](ctx, r.db, id)
}

func (r *OrderRepository) List(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("order_status = ?", filter.Status)
	}
	return paginate[models.Order](q, filter.Pagination, "created_at DESC")
}
