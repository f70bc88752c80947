package dto

import (
	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps a single cart line and the merged quantity of one product.
const MaxItemQuantity = 99999

type OrderItemRequest struct {
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99999"`
}

type ShippingInfoRequest struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
	PinCode string `json:"pinCode" validate:"required"`
	PhoneNo string `json:"phoneNo" validate:"required,min=5,max=20"`
}

// CheckoutRequest carries only references. Prices are always read from the catalog.
type CheckoutRequest struct {
	OrderItems    []OrderItemRequest  `json:"orderItems" validate:"required,min=1,dive"`
	ShippingInfo  ShippingInfoRequest `json:"shippingInfo" validate:"required"`
	CouponCode    string              `json:"couponCode" validate:"omitempty,max=50"`
	PaymentMethod string              `json:"paymentMethod" validate:"omitempty,max=255"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" form:"status" validate:"required,is-order-status"`
}

type OrderQuery struct {
	Status   models.OrderStatus `form:"status" validate:"omitempty,is-order-status"`
	Page     int                `form:"page" validate:"omitempty,min=1"`
	PageSize int                `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type OrderList struct {
	Orders      []models.Order
	Total       int64
	TotalAmount decimal.Decimal
}

// OrderEvent is pushed to the admin live feed.
type OrderEvent struct {
	Type    string        `json:"type"`
	OrderID string        `json:"orderId"`
	Status  string        `json:"status"`
	Total   string        `json:"totalPrice"`
	UserID  string        `json:"user"`
	Order   *models.Order `json:"order,omitempty"`
}
