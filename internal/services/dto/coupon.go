package dto

import (
	"time"

	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code          string              `json:"code" validate:"required,min=3,max=50,alphanum"`
	DiscountType  models.DiscountType `json:"discountType" validate:"required,is-discount-type"`
	DiscountValue decimal.Decimal     `json:"discountValue" validate:"gt=0"`
	MinOrderValue decimal.Decimal     `json:"minOrderValue" validate:"gte=0"`
	MaxUses       int                 `json:"maxUses" validate:"min=0"`
	ValidFrom     *time.Time          `json:"validFrom"`
	ValidTo       *time.Time          `json:"validTo"`
	Active        *bool               `json:"active"`
}

type UpdateCouponRequest struct {
	DiscountType  *models.DiscountType `json:"discountType" validate:"omitempty,is-discount-type"`
	DiscountValue *decimal.Decimal     `json:"discountValue" validate:"omitempty,gt=0"`
	MinOrderValue *decimal.Decimal     `json:"minOrderValue" validate:"omitempty,gte=0"`
	MaxUses       *int                 `json:"maxUses" validate:"omitempty,min=0"`
	ValidFrom     *time.Time           `json:"validFrom"`
	ValidTo       *time.Time           `json:"validTo"`
	Active        *bool                `json:"active"`
}

type ApplyCouponRequest struct {
	Code   string          `json:"code" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

type CouponQuote struct {
	Code        string          `json:"code"`
	Amount      decimal.Decimal `json:"amount"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

type CouponQuery struct {
	Active   *bool `form:"active"`
	Page     int   `form:"page" validate:"omitempty,min=1"`
	PageSize int   `form:"page_size" validate:"omitempty,min=1,max=100"`
}
