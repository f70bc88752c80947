package repositories

import (
	"context"

	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
)

type ProductFilter struct {
	Keyword  string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Pagination
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	// AdjustStock атомарно прибавляет delta к остатку. Если отрицательная delta
	// увела бы остаток ниже нуля, возвращается ErrInsufficientStock без изменений.
	AdjustStock(ctx context.Context, id string, delta int) error
}
