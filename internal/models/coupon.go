package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	BaseModel     `bson:",inline"`
	Code          string          `gorm:"size:50;uniqueIndex;not null" bson:"code" json:"code"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);not null" bson:"discount_type" json:"discountType"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null" bson:"discount_value" json:"discountValue"`
	MinOrderValue decimal.Decimal `gorm:"type:decimal(12,2)" bson:"min_order_value" json:"minOrderValue"`
	MaxUses       int             `bson:"max_uses" json:"maxUses"`
	UsedCount     int             `bson:"used_count" json:"usedCount"`
	ValidFrom     *time.Time      `bson:"valid_from,omitempty" json:"validFrom,omitempty"`
	ValidTo       *time.Time      `bson:"valid_to,omitempty" json:"validTo,omitempty"`
	Active        bool            `bson:"active" json:"active"`
	CreatedBy     string          `gorm:"size:36" bson:"created_by" json:"createdBy"`
}

// IsValidAt reports whether the coupon is active and inside its validity window.
func (c *Coupon) IsValidAt(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return false
	}
	return true
}

// Exhausted reports whether the usage limit is reached. MaxUses 0 means unlimited.
func (c *Coupon) Exhausted() bool {
	return c.MaxUses > 0 && c.UsedCount >= c.MaxUses
}

// DiscountFor returns the discount for an amount, never more than the amount itself.
func (c *Coupon) DiscountFor(amount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercent:
		discount = amount.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	case DiscountTypeFixed:
		discount = c.DiscountValue
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount.Round(2)
}
