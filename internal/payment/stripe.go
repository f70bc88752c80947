package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider charges through confirmed PaymentIntents.
type StripeProvider struct {
	api           *client.API
	publicKey     string
	defaultSource string
}

func NewStripeProvider(secretKey, publicKey, defaultSource string) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProvider{api: api, publicKey: publicKey, defaultSource: defaultSource}, nil
}

func (p *StripeProvider) Name() string           { return "stripe" }
func (p *StripeProvider) PublishableKey() string { return p.publicKey }

func (p *StripeProvider) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	cp := &stripe.CustomerParams{
		Email: stripe.String(params.Email),
		Name:  stripe.String(params.Name),
	}
	cp.Context = ctx

	cus, err := p.api.Customers.New(cp)
	if err != nil {
		return "", fmt.Errorf("stripe: create customer: %w", err)
	}
	return cus.ID, nil
}

func (p *StripeProvider) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if err := validateCharge(params); err != nil {
		return nil, err
	}

	pi := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(toMinorUnits(params.Amount)),
		Currency:           stripe.String(strings.ToLower(params.Currency)),
		Confirm:            stripe.Bool(true),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String(params.Description),
	}
	if params.CustomerID != "" {
		pi.Customer = stripe.String(params.CustomerID)
	}
	if params.Email != "" {
		pi.ReceiptEmail = stripe.String(params.Email)
	}
	// Without an explicit method Stripe falls back to the customer's default source.
	if method := firstNonEmpty(params.PaymentMethod, p.defaultSource); method != "" {
		pi.PaymentMethod = stripe.String(method)
	}
	pi.Context = ctx
	if params.Reference != "" {
		pi.SetIdempotencyKey(params.Reference)
		pi.AddMetadata("reference", params.Reference)
	}

	intent, err := p.api.PaymentIntents.New(pi)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	return &ChargeResult{
		ID:           intent.ID,
		Status:       stripeStatus(intent.Status),
		ClientSecret: intent.ClientSecret,
	}, nil
}

func stripeStatus(s stripe.PaymentIntentStatus) models.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

// toMinorUnits converts 12.34 to 1234.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
