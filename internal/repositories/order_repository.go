package repositories

import (
	"context"

	"storefront_backend/internal/models"
)

type OrderFilter struct {
	UserID string
	Status models.OrderStatus
	Pagination
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	// List возвращает заказы, новые первыми.
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
}
