package services

import (
	"context"
	"fmt"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type PaymentService interface {
	Config() dto.PaymentConfig
	// Process списывает оплату с текущего пользователя вне заказа.
	Process(ctx context.Context, user *models.User, req *dto.ProcessPaymentRequest) (*dto.PaymentResult, error)
}

type paymentService struct {
	provider payment.Provider
	users    repositories.UserRepository
	currency string
}

func NewPaymentService(provider payment.Provider, users repositories.UserRepository, currency string) PaymentService {
	return &paymentService{provider: provider, users: users, currency: currency}
}

func (s *paymentService) Config() dto.PaymentConfig {
	return dto.PaymentConfig{
		Provider:       s.provider.Name(),
		PublishableKey: s.provider.PublishableKey(),
		Currency:       s.currency,
	}
}

func (s *paymentService) Process(ctx context.Context, user *models.User, req *dto.ProcessPaymentRequest) (*dto.PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidPaymentAmount
	}

	customerID, err := ensureCustomer(ctx, s.users, s.provider, user)
	if err != nil {
		return nil, apperrors.ErrPaymentFailed(err)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payment by %s", user.Email)
	}

	result, err := s.provider.Charge(ctx, payment.ChargeParams{
		CustomerID:    customerID,
		Amount:        req.Amount.Round(2),
		Currency:      s.currency,
		Description:   description,
		Reference:     uuid.NewString(),
		Email:         user.Email,
		Name:          user.Name,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Standalone payment failed", err, "user_id", user.ID)
		return nil, apperrors.ErrPaymentFailed(err)
	}

	return &dto.PaymentResult{
		ID:           result.ID,
		Status:       string(result.Status),
		ClientSecret: result.ClientSecret,
		RedirectURL:  result.RedirectURL,
	}, nil
}
