package repositories

import (
	"context"

	"storefront_backend/internal/models"
)

type CouponFilter struct {
	Active *bool
	Pagination
}

type CouponRepository interface {
	// Create возвращает ErrDuplicate, если код уже занят.
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByID(ctx context.Context, id string) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CouponFilter) ([]models.Coupon, int64, error)
	// IncrementUsage увеличивает UsedCount, пока не достигнут MaxUses (ErrCouponExhausted).
	IncrementUsage(ctx context.Context, id string) error
	// DecrementUsage возвращает одно использование, не опускаясь ниже нуля.
	DecrementUsage(ctx context.Context, id string) error
}
