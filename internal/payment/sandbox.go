package payment

import (
	"context"
	"sync"

	"storefront_backend/internal/models"

	"github.com/google/uuid"
)

// SandboxProvider accepts every charge without contacting anyone.
type SandboxProvider struct {
	mu      sync.Mutex
	charges []ChargeParams
}

func NewSandboxProvider() *SandboxProvider {
	return &SandboxProvider{}
}

func (p *SandboxProvider) Name() string           { return "sandbox" }
func (p *SandboxProvider) PublishableKey() string { return "pk_sandbox" }

func (p *SandboxProvider) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	return "cus_" + uuid.NewString(), nil
}

func (p *SandboxProvider) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if err := validateCharge(params); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.charges = append(p.charges, params)
	p.mu.Unlock()

	return &ChargeResult{
		ID:     "ch_" + uuid.NewString(),
		Status: models.PaymentStatusSucceeded,
	}, nil
}

// Charges returns what has been charged so far.
func (p *SandboxProvider) Charges() []ChargeParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ChargeParams(nil), p.charges...)
}
