package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

type SubscriptionService interface {
	Plans() []models.SubscriptionPlan
	Subscribe(ctx context.Context, user *models.User, req *dto.SubscribeRequest) (*models.Subscription, error)
	MySubscriptions(ctx context.Context, userID string, query *dto.SubscriptionQuery) ([]models.Subscription, int64, error)
	// CancelMine отменяет активную подписку пользователя. Доступ прекращается сразу.
	CancelMine(ctx context.Context, userID string) (*models.Subscription, error)

	ListSubscriptions(ctx context.Context, query *dto.SubscriptionQuery) ([]models.Subscription, int64, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, req *dto.UpdateSubscriptionRequest) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error

	// ExpireDue переводит просроченные активные подписки в expired.
	ExpireDue(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subscriptions repositories.SubscriptionRepository
	users         repositories.UserRepository
	payments      payment.Provider
	plans         []models.SubscriptionPlan
	currency      string
}

func NewSubscriptionService(store repositories.Store, payments payment.Provider, plans []models.SubscriptionPlan, currency string) SubscriptionService {
	return &subscriptionService{
		subscriptions: store.Subscriptions(),
		users:         store.Users(),
		payments:      payments,
		plans:         plans,
		currency:      currency,
	}
}

func (s *subscriptionService) Plans() []models.SubscriptionPlan {
	return append([]models.SubscriptionPlan(nil), s.plans...)
}

func (s *subscriptionService) plan(id string) (models.SubscriptionPlan, bool) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.SubscriptionPlan{}, false
}

func (s *subscriptionService) Subscribe(ctx context.Context, user *models.User, req *dto.SubscribeRequest) (*models.Subscription, error) {
	plan, ok := s.plan(req.Plan)
	if !ok {
		return nil, apperrors.ErrUnknownPlan.WithDetails(map[string]string{"plan": req.Plan})
	}

	now := time.Now()
	if _, err := s.subscriptions.FindActiveByUser(ctx, user.ID, now); err == nil {
		return nil, apperrors.ErrActiveSubscriptionExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.InternalError(err)
	}

	sub := &models.Subscription{
		UserID:    user.ID,
		Plan:      plan.ID,
		Price:     plan.Price,
		Currency:  s.currency,
		Status:    models.SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
	}
	sub.EnsureID()

	customerID, err := ensureCustomer(ctx, s.users, s.payments, user)
	if err != nil {
		return nil, apperrors.ErrPaymentFailed(err)
	}

	result, err := s.payments.Charge(ctx, payment.ChargeParams{
		CustomerID:    customerID,
		Amount:        plan.Price,
		Currency:      s.currency,
		Description:   fmt.Sprintf("%s subscription", plan.Name),
		Reference:     sub.ID,
		Email:         user.Email,
		Name:          user.Name,
		PaymentMethod: req.PaymentMethod,
	})
	if err == nil && result.Status == models.PaymentStatusFailed {
		err = fmt.Errorf("charge %s was declined", result.ID)
	}
	if err != nil {
		logger.CtxWithError(ctx, "Subscription payment failed", err, "user_id", user.ID, "plan", plan.ID)
		return nil, apperrors.ErrPaymentFailed(err)
	}

	sub.PaymentInfo = models.PaymentInfo{
		ChargeID:    result.ID,
		Status:      result.Status,
		Provider:    s.payments.Name(),
		RedirectURL: result.RedirectURL,
	}

	if err := s.subscriptions.Create(ctx, sub); err != nil {
		logger.CtxWithError(ctx, "Failed to save paid subscription", err, "subscription_id", sub.ID, "charge_id", result.ID)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Subscription started", "subscription_id", sub.ID, "plan", plan.ID, "ends", sub.EndDate)
	return sub, nil
}

func (s *subscriptionService) MySubscriptions(ctx context.Context, userID string, query *dto.SubscriptionQuery) ([]models.Subscription, int64, error) {
	subs, total, err := s.subscriptions.List(ctx, repositories.SubscriptionFilter{
		UserID:     userID,
		Status:     query.Status,
		Pagination: pagination(query.Page, query.PageSize),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return subs, total, nil
}

func (s *subscriptionService) CancelMine(ctx context.Context, userID string) (*models.Subscription, error) {
	now := time.Now()
	sub, err := s.subscriptions.FindActiveByUser(ctx, userID, now)
	if err != nil {
		return nil, repoError(err, apperrors.ErrSubscriptionNotFound)
	}

	sub.Status = models.SubscriptionStatusCancelled
	sub.CancelledAt = &now
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, repoError(err, apperrors.ErrSubscriptionNotFound)
	}

	logger.CtxInfo(ctx, "Subscription cancelled", "subscription_id", sub.ID)
	return sub, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, query *dto.SubscriptionQuery) ([]models.Subscription, int64, error) {
	subs, total, err := s.subscriptions.List(ctx, repositories.SubscriptionFilter{
		UserID:     query.UserID,
		Status:     query.Status,
		Pagination: pagination(query.Page, query.PageSize),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return subs, total, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	sub, err := s.subscriptions.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrSubscriptionNotFound)
	}
	return sub, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, id string, req *dto.UpdateSubscriptionRequest) (*models.Subscription, error) {
	sub, err := s.subscriptions.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrSubscriptionNotFound)
	}

	if req.EndDate != nil {
		if !req.EndDate.After(sub.StartDate) {
			return nil, apperrors.NewBadRequestError("endDate must be after startDate")
		}
		sub.EndDate = *req.EndDate
	}
	if req.Status != nil && *req.Status != sub.Status {
		sub.Status = *req.Status
		if sub.Status == models.SubscriptionStatusCancelled {
			now := time.Now()
			sub.CancelledAt = &now
		} else {
			sub.CancelledAt = nil
		}
	}

	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, repoError(err, apperrors.ErrSubscriptionNotFound)
	}
	return sub, nil
}

func (s *subscriptionService) DeleteSubscription(ctx context.Context, id string) error {
	if err := s.subscriptions.Delete(ctx, id); err != nil {
		return repoError(err, apperrors.ErrSubscriptionNotFound)
	}
	return nil
}

func (s *subscriptionService) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.subscriptions.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}
