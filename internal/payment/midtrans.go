package payment

import (
	"context"
	"errors"
	"fmt"

	"storefront_backend/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransProvider opens Snap transactions. The customer pays on the returned redirect URL,
// so charges start out pending.
type MidtransProvider struct {
	client    snap.Client
	clientKey string
}

func NewMidtransProvider(serverKey, clientKey string, production bool) (*MidtransProvider, error) {
	if serverKey == "" {
		return nil, errors.New("midtrans server key is required")
	}

	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	p := &MidtransProvider{clientKey: clientKey}
	p.client.New(serverKey, env)
	return p, nil
}

func (p *MidtransProvider) Name() string           { return "midtrans" }
func (p *MidtransProvider) PublishableKey() string { return p.clientKey }

// CreateCustomer is a no-op: Snap has no customer objects. The email doubles as the id.
func (p *MidtransProvider) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	return params.Email, nil
}

func (p *MidtransProvider) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if err := validateCharge(params); err != nil {
		return nil, err
	}
	if params.Reference == "" {
		return nil, errors.New("midtrans: order reference is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  params.Reference,
			GrossAmt: params.Amount.Round(0).IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: params.Name,
			Email: params.Email,
		},
	}

	resp, mErr := p.client.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("midtrans: create transaction: %s", mErr.Message)
	}

	return &ChargeResult{
		ID:          resp.Token,
		Status:      models.PaymentStatusPending,
		RedirectURL: resp.RedirectURL,
	}, nil
}
