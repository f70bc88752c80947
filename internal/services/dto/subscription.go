package dto

import (
	"time"

	"storefront_backend/internal/models"
)

type SubscribeRequest struct {
	Plan          string `json:"plan" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=255"`
}

type UpdateSubscriptionRequest struct {
	Status  *models.SubscriptionStatus `json:"status" validate:"omitempty,is-subscription-status"`
	EndDate *time.Time                 `json:"endDate"`
}

type SubscriptionQuery struct {
	UserID   string                    `form:"user"`
	Status   models.SubscriptionStatus `form:"status" validate:"omitempty,is-subscription-status"`
	Page     int                       `form:"page" validate:"omitempty,min=1"`
	PageSize int                       `form:"page_size" validate:"omitempty,min=1,max=100"`
}
