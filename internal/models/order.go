package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderItem struct {
	ProductID string          `bson:"product" json:"product"`
	Name      string          `bson:"name" json:"name"`
	Price     decimal.Decimal `bson:"price" json:"price"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	Image     string          `bson:"image" json:"image"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ShippingInfo struct {
	Address string `gorm:"size:255" bson:"address" json:"address"`
	City    string `gorm:"size:100" bson:"city" json:"city"`
	State   string `gorm:"size:100" bson:"state" json:"state"`
	Country string `gorm:"size:100" bson:"country" json:"country"`
	PinCode string `gorm:"size:20" bson:"pin_code" json:"pinCode"`
	PhoneNo string `gorm:"size:30" bson:"phone_no" json:"phoneNo"`
}

// PaymentProviderNone marks orders settled without a processor charge.
const PaymentProviderNone = "none"

// PaymentInfo keeps only processor-issued identifiers, never card data.
type PaymentInfo struct {
	ChargeID    string        `gorm:"size:255" bson:"id" json:"id"`
	Status      PaymentStatus `gorm:"type:varchar(20)" bson:"status" json:"status"`
	Provider    string        `gorm:"size:30" bson:"provider" json:"provider"`
	RedirectURL string        `gorm:"size:1024" bson:"redirect_url,omitempty" json:"redirectUrl,omitempty"`
}

type Order struct {
	BaseModel     `bson:",inline"`
	UserID        string                         `gorm:"size:36;index;not null" bson:"user" json:"user"`
	OrderItems    datatypes.JSONSlice[OrderItem] `bson:"order_items" json:"orderItems"`
	ShippingInfo  ShippingInfo                   `gorm:"embedded;embeddedPrefix:shipping_" bson:"shipping_info" json:"shippingInfo"`
	PaymentInfo   PaymentInfo                    `gorm:"embedded;embeddedPrefix:payment_" bson:"payment_info" json:"paymentInfo"`
	ItemsPrice    decimal.Decimal                `gorm:"type:decimal(12,2)" bson:"items_price" json:"itemsPrice"`
	Discount      decimal.Decimal                `gorm:"type:decimal(12,2)" bson:"discount" json:"discount"`
	TaxPrice      decimal.Decimal                `gorm:"type:decimal(12,2)" bson:"tax_price" json:"taxPrice"`
	ShippingPrice decimal.Decimal                `gorm:"type:decimal(12,2)" bson:"shipping_price" json:"shippingPrice"`
	TotalPrice    decimal.Decimal                `gorm:"type:decimal(12,2)" bson:"total_price" json:"totalPrice"`
	CouponCode    string                         `gorm:"size:50" bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	OrderStatus   OrderStatus                    `gorm:"type:varchar(20);index" bson:"order_status" json:"orderStatus"`
	PaidAt        *time.Time                     `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	DeliveredAt   *time.Time                     `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
}
