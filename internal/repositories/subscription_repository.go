package repositories

import (
	"context"
	"time"

	"storefront_backend/internal/models"
)

type SubscriptionFilter struct {
	UserID string
	Status models.SubscriptionStatus
	Pagination
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, id string) (*models.Subscription, error)
	// FindActiveByUser возвращает активную подписку пользователя, не истёкшую на момент now.
	FindActiveByUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, id string) error
	// List возвращает подписки, новые первыми.
	List(ctx context.Context, filter SubscriptionFilter) ([]models.Subscription, int64, error)
	// ExpireDue переводит активные подписки с датой окончания до now в expired.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
