package handlers

import (
	"storefront_backend/internal/services"
	"storefront_backend/internal/storage"
	"storefront_backend/internal/validator"
)

// AppHandlers содержит все HTTP обработчики приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProductHandler      *ProductHandler
	OrderHandler        *OrderHandler
	CouponHandler       *CouponHandler
	SubscriptionHandler *SubscriptionHandler
	PaymentHandler      *PaymentHandler
	// FileHandler равен nil, если файлы хранятся не на локальном диске.
	FileHandler         *FileHandler
	HealthHandler       *HealthHandler
}

// NewAppHandlers создаёт обработчики. Если localFiles равен nil, маршрут файлов не создаётся.
func NewAppHandlers(
	svc *services.ServiceContainer,
	v *validator.Validator,
	localFiles storage.Storage,
	pinger Pinger,
	cookie CookieConfig,
) *AppHandlers {
	base := NewBaseHandler(v)

	appHandlers := &AppHandlers{
		AuthHandler:         NewAuthHandler(base, svc.AuthService, cookie),
		UserHandler:         NewUserHandler(base, svc.UserService),
		ProductHandler:      NewProductHandler(base, svc.ProductService),
		OrderHandler:        NewOrderHandler(base, svc.OrderService),
		CouponHandler:       NewCouponHandler(base, svc.CouponService),
		SubscriptionHandler: NewSubscriptionHandler(base, svc.SubscriptionService),
		PaymentHandler:      NewPaymentHandler(base, svc.PaymentService),
		HealthHandler:       NewHealthHandler(pinger),
	}
	if localFiles != nil {
		appHandlers.FileHandler = NewFileHandler(base, localFiles)
	}
	return appHandlers
}
