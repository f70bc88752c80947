package payment

import (
	"context"
	"errors"
	"fmt"

	"storefront_backend/internal/config"
	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("charge amount must be positive")

type CustomerParams struct {
	Email string
	Name  string
}

type ChargeParams struct {
	CustomerID    string
	Amount        decimal.Decimal
	Currency      string
	Description   string
	Reference     string // order or subscription id, also used as idempotency key
	Email         string
	Name          string
	PaymentMethod string // processor-issued payment method id, optional
}

// ChargeResult holds the processor-issued identifiers. Card data never reaches us.
type ChargeResult struct {
	ID           string
	Status       models.PaymentStatus
	RedirectURL  string
	ClientSecret string
}

// Provider is a payment processor.
type Provider interface {
	Name() string
	PublishableKey() string
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}

// NewProvider builds the processor named by cfg.Payment.Provider.
func NewProvider(cfg *config.Config) (Provider, error) {
	p := cfg.Payment
	switch p.Provider {
	case "", "sandbox":
		return NewSandboxProvider(), nil
	case "stripe":
		return NewStripeProvider(p.Stripe.SecretKey, p.Stripe.PublicKey, p.Stripe.DefaultSource)
	case "midtrans":
		return NewMidtransProvider(p.Midtrans.ServerKey, p.Midtrans.ClientKey, p.Midtrans.Production)
	case "robokassa":
		return NewRobokassaProvider(RobokassaConfig{
			MerchantLogin: p.Robokassa.MerchantLogin,
			Password1:     p.Robokassa.Password1,
			Password2:     p.Robokassa.Password2,
			BaseURL:       p.Robokassa.BaseURL,
			Currency:      p.Currency,
			IsTest:        p.Robokassa.IsTest,
		})
	}
	return nil, fmt.Errorf("unknown payment provider %q", p.Provider)
}

func validateCharge(params ChargeParams) error {
	if !params.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
