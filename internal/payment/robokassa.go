package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
)

const defaultRobokassaURL = "https://auth.robokassa.ru/Merchant/Index.aspx"

type RobokassaConfig struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	Currency      string
	IsTest        bool
}

// RobokassaProvider builds signed payment links. Nothing is charged until the
// customer completes the form, so charges start out pending.
type RobokassaProvider struct {
	cfg RobokassaConfig
}

func NewRobokassaProvider(cfg RobokassaConfig) (*RobokassaProvider, error) {
	if cfg.MerchantLogin == "" || cfg.Password1 == "" {
		return nil, errors.New("robokassa merchant login and password1 are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultRobokassaURL
	}
	return &RobokassaProvider{cfg: cfg}, nil
}

func (r *RobokassaProvider) Name() string           { return "robokassa" }
func (r *RobokassaProvider) PublishableKey() string { return r.cfg.MerchantLogin }

func (r *RobokassaProvider) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	return params.Email, nil
}

func (r *RobokassaProvider) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if err := validateCharge(params); err != nil {
		return nil, err
	}
	if params.Reference == "" {
		return nil, errors.New("robokassa: invoice reference is required")
	}

	return &ChargeResult{
		ID:          params.Reference,
		Status:      models.PaymentStatusPending,
		RedirectURL: r.paymentURL(params.Reference, params.Amount, params.Description, params.Email),
	}, nil
}

func (r *RobokassaProvider) paymentURL(invID string, amount decimal.Decimal, description, email string) string {
	params := url.Values{}
	params.Set("MerchantLogin", r.cfg.MerchantLogin)
	params.Set("OutSum", amount.StringFixed(2))
	params.Set("InvId", invID)
	params.Set("Description", description)
	params.Set("SignatureValue", r.signature(invID, amount))
	if email != "" {
		params.Set("Email", email)
	}
	if r.cfg.Currency != "" {
		params.Set("IncCurrLabel", strings.ToUpper(r.cfg.Currency))
	}
	if r.cfg.IsTest {
		params.Set("IsTest", "1")
	}
	return fmt.Sprintf("%s?%s", r.cfg.BaseURL, params.Encode())
}

// signature is MD5(MerchantLogin:OutSum:InvId:Password1), upper-case hex.
func (r *RobokassaProvider) signature(invID string, amount decimal.Decimal) string {
	plain := fmt.Sprintf("%s:%s:%s:%s", r.cfg.MerchantLogin, amount.StringFixed(2), invID, r.cfg.Password1)
	hash := md5.Sum([]byte(plain))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// VerifyResultSignature checks the ResultURL callback: MD5(OutSum:InvId:Password2).
func (r *RobokassaProvider) VerifyResultSignature(amount decimal.Decimal, invID, received string) bool {
	plain := fmt.Sprintf("%s:%s:%s", amount.StringFixed(2), invID, r.cfg.Password2)
	hash := md5.Sum([]byte(plain))
	return strings.EqualFold(hex.EncodeToString(hash[:]), received)
}
