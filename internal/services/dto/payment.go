package dto

import "github.com/shopspring/decimal"

type ProcessPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Description   string          `json:"description" validate:"omitempty,max=255"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,max=255"`
}

type PaymentConfig struct {
	Provider       string `json:"provider"`
	PublishableKey string `json:"publishableKey"`
	Currency       string `json:"currency"`
}

type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
}
