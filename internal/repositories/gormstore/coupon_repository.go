package gormstore

import (
	"context"
	"errors"
	"strings"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	return translate(r.db.WithContext(ctx).Create(coupon).Error)
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	return findByID[models.Coupon](ctx, r.db, id)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", strings.ToUpper(code)).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *CouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	return updateAll(ctx, r.db, coupon)
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Coupon](ctx, r.db, id)
}

func (r *CouponRepository) List(ctx context.Context, filter repositories.CouponFilter) ([]models.Coupon, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Coupon{})
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	return paginate[models.Coupon](q, filter.Pagination, "created_at DESC")
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND (max_uses = 0 OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return repositories.ErrNotFound
		}
		return err
	}
	return repositories.ErrCouponExhausted
}

func (r *CouponRepository) DecrementUsage(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error)
}
