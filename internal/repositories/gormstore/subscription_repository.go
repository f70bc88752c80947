package gormstore

import (
	"context"
	"time"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	return findByID[models.Subscription](ctx, r.db, id)
}

func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND end_date > ?", userID, models.SubscriptionStatusActive, now).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	return updateAll(ctx, r.db, sub)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Subscription](ctx, r.db, id)
}

func (r *SubscriptionRepository) List(ctx context.Context, filter repositories.SubscriptionFilter) ([]models.Subscription, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Subscription{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return paginate[models.Subscription](q, filter.Pagination, "created_at DESC")
}

func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, now).
		Updates(map[string]any{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": now,
		})
	return res.RowsAffected, translate(res.Error)
}
