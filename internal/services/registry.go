package services

import (
	"storefront_backend/internal/email"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/storage"
)

// ServiceContainer содержит все сервисы, нужные обработчикам.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ProductService      ProductService
	OrderService        OrderService
	CouponService       CouponService
	SubscriptionService SubscriptionService
	PaymentService      PaymentService
	ImageService        ImageService

	Mailer   email.Mailer
	Payments payment.Provider
	Storage  storage.Storage
}
