package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(event dto.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func testPricing() OrderPricing {
	return OrderPricing{
		TaxRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(200),
		ShippingFee:           decimal.NewFromInt(25),
		Currency:              "usd",
	}
}

func checkoutRequest(productID string, qty int) *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		OrderItems: []dto.OrderItemRequest{{ProductID: productID, Quantity: qty}},
		ShippingInfo: dto.ShippingInfoRequest{
			Address: "1 Main St", City: "Springfield", State: "IL", Country: "US", PinCode: "62701", PhoneNo: "5551234",
		},
	}
}

func TestOrderService_Checkout(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	env := newTestEnv(t)
	pub := &recordingPublisher{}
	svc := NewOrderService(env.store, env.sandbox, pub, testPricing())
	user := createUser(t, env, "buyer@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "100", 5)

	// --- Act ---
	order, err := svc.Checkout(ctx, user, checkoutRequest(product.ID, 2))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.OrderStatus)
	assert.True(t, decimal.NewFromInt(200).Equal(order.ItemsPrice))
	assert.True(t, decimal.NewFromInt(36).Equal(order.TaxPrice))
	assert.True(t, order.ShippingPrice.IsZero(), "free shipping at the threshold")
	assert.True(t, decimal.NewFromInt(236).Equal(order.TotalPrice))
	assert.Equal(t, models.PaymentStatusSucceeded, order.PaymentInfo.Status)
	assert.NotNil(t, order.PaidAt)

	stored, err := env.store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)

	require.Len(t, pub.events, 1)
	assert.Equal(t, OrderEventCreated, pub.events[0].Type)
	assert.Len(t, env.sandbox.Charges(), 1)
	assert.True(t, order.TotalPrice.Equal(env.sandbox.Charges()[0].Amount))
}

func TestOrderService_CheckoutChargesShippingBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	user := createUser(t, env, "small@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "10", 5)

	order, err := svc.Checkout(context.Background(), user, checkoutRequest(product.ID, 1))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(order.ShippingPrice))
	assert.True(t, decimal.RequireFromString("36.8").Equal(order.TotalPrice))
}

func TestOrderService_CheckoutInsufficientStock(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	user := createUser(t, env, "greedy@example.com", models.UserRoleCustomer)
	plenty := createProduct(t, env, "5", 10)
	scarce := createProduct(t, env, "5", 1)

	req := checkoutRequest(plenty.ID, 3)
	req.OrderItems = append(req.OrderItems, dto.OrderItemRequest{ProductID: scarce.ID, Quantity: 2})

	_, err := svc.Checkout(ctx, user, req)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)

	for id, want := range map[string]int{plenty.ID: 10, scarce.ID: 1} {
		p, err := env.store.Products().FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, p.Stock)
	}
	assert.Empty(t, env.sandbox.Charges())
}

func TestOrderService_CheckoutPaymentFailureRestoresStockAndCoupon(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	env := newTestEnv(t)
	provider := &mockProvider{}
	provider.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_1", nil)
	provider.On("Charge", mock.Anything, mock.Anything).Return(nil, errors.New("card declined"))

	svc := NewOrderService(env.store, provider, nil, testPricing())
	user := createUser(t, env, "broke@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "50", 4)
	coupon := &models.Coupon{Code: "SAVE10", DiscountType: models.DiscountTypePercent, DiscountValue: decimal.NewFromInt(10), MaxUses: 1, Active: true}
	require.NoError(t, env.store.Coupons().Create(ctx, coupon))

	req := checkoutRequest(product.ID, 2)
	req.CouponCode = "save10"

	// --- Act ---
	_, err := svc.Checkout(ctx, user, req)

	// --- Assert ---
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HTTPCode)
	assert.Equal(t, "Payment processing failed", appErr.Message)

	p, err := env.store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)

	c, err := env.store.Coupons().FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.UsedCount)

	orders, total, err := env.store.Orders().List(ctx, ordersFilterAll())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
	provider.AssertExpectations(t)
}

func TestOrderService_CheckoutWithCoupon(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	user := createUser(t, env, "saver@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "100", 5)
	coupon := &models.Coupon{Code: "TEN", DiscountType: models.DiscountTypePercent, DiscountValue: decimal.NewFromInt(10), Active: true}
	require.NoError(t, env.store.Coupons().Create(ctx, coupon))

	req := checkoutRequest(product.ID, 2)
	req.CouponCode = "ten"
	order, err := svc.Checkout(ctx, user, req)

	require.NoError(t, err)
	assert.Equal(t, "TEN", order.CouponCode)
	assert.True(t, decimal.NewFromInt(20).Equal(order.Discount))
	assert.True(t, decimal.RequireFromString("32.4").Equal(order.TaxPrice))
	assert.True(t, decimal.RequireFromString("212.4").Equal(order.TotalPrice))

	c, err := env.store.Coupons().FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)
}

func TestOrderService_CheckoutFullDiscountSkipsCharge(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	user := createUser(t, env, "lucky@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "100", 5)
	coupon := &models.Coupon{Code: "FREE", DiscountType: models.DiscountTypePercent, DiscountValue: decimal.NewFromInt(100), Active: true}
	require.NoError(t, env.store.Coupons().Create(ctx, coupon))

	req := checkoutRequest(product.ID, 2)
	req.CouponCode = "free"

	// --- Act ---
	order, err := svc.Checkout(ctx, user, req)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(order.Discount))
	assert.True(t, order.TotalPrice.IsZero())
	assert.Equal(t, models.PaymentStatusSucceeded, order.PaymentInfo.Status)
	assert.Equal(t, models.PaymentProviderNone, order.PaymentInfo.Provider)
	assert.Empty(t, order.PaymentInfo.ChargeID)
	assert.NotNil(t, order.PaidAt)
	assert.Empty(t, env.sandbox.Charges())

	p, err := env.store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	c, err := env.store.Coupons().FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)
}

func TestOrderService_CheckoutRejectsBadQuantities(t *testing.T) {
	tests := []struct {
		name    string
		lines   []int
		wantErr error
	}{
		{"line above cap", []int{dto.MaxItemQuantity + 1}, apperrors.ErrInvalidQuantity},
		{"merged lines above cap", []int{60000, 60000}, apperrors.ErrInvalidQuantity},
		{"merged lines overflowing int", []int{math.MaxInt, math.MaxInt}, apperrors.ErrInvalidQuantity},
		{"negative line", []int{-1}, apperrors.ErrInvalidQuantity},
		{"merged lines above stock", []int{3, 3}, apperrors.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// --- Arrange ---
			ctx := context.Background()
			env := newTestEnv(t)
			svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
			user := createUser(t, env, "bulk@example.com", models.UserRoleCustomer)
			other := createProduct(t, env, "80", 20)
			product := createProduct(t, env, "100", 5)

			req := checkoutRequest(other.ID, 10)
			for _, qty := range tt.lines {
				req.OrderItems = append(req.OrderItems, dto.OrderItemRequest{ProductID: product.ID, Quantity: qty})
			}

			// --- Act ---
			_, err := svc.Checkout(ctx, user, req)

			// --- Assert ---
			assert.ErrorIs(t, err, tt.wantErr)
			for id, want := range map[string]int{other.ID: 20, product.ID: 5} {
				p, err := env.store.Products().FindByID(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, want, p.Stock)
			}
			assert.Empty(t, env.sandbox.Charges())
		})
	}
}

func TestOrderService_CheckoutUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	user := createUser(t, env, "lost@example.com", models.UserRoleCustomer)

	_, err := svc.Checkout(context.Background(), user, checkoutRequest("missing", 1))

	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestOrderService_StatusTransitions(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	env := newTestEnv(t)
	pub := &recordingPublisher{}
	svc := NewOrderService(env.store, env.sandbox, pub, testPricing())
	user := createUser(t, env, "status@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "20", 5)

	shipped, err := svc.Checkout(ctx, user, checkoutRequest(product.ID, 1))
	require.NoError(t, err)
	cancelled, err := svc.Checkout(ctx, user, checkoutRequest(product.ID, 2))
	require.NoError(t, err)

	// --- Act & Assert ---
	_, err = svc.UpdateOrderStatus(ctx, shipped.ID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition, "processing cannot jump to delivered")

	_, err = svc.UpdateOrderStatus(ctx, shipped.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	delivered, err := svc.UpdateOrderStatus(ctx, shipped.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)

	_, err = svc.UpdateOrderStatus(ctx, cancelled.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, cancelled.ID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)

	p, err := env.store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock, "cancelling gives the reserved units back")

	assert.Len(t, pub.events, 5)
}

func TestOrderService_GetOrderOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	owner := createUser(t, env, "owner@example.com", models.UserRoleCustomer)
	other := createUser(t, env, "other@example.com", models.UserRoleCustomer)
	admin := createUser(t, env, "boss@example.com", models.UserRoleAdmin)
	product := createProduct(t, env, "20", 5)

	order, err := svc.Checkout(ctx, owner, checkoutRequest(product.ID, 1))
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, owner, order.ID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(ctx, admin, order.ID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(ctx, other, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestOrderService_ListOrdersTotalsEveryPage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewOrderService(env.store, env.sandbox, nil, testPricing())
	user := createUser(t, env, "many@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "10", 10)

	for i := 0; i < 3; i++ {
		_, err := svc.Checkout(ctx, user, checkoutRequest(product.ID, 1))
		require.NoError(t, err)
	}

	list, err := svc.ListOrders(ctx, &dto.OrderQuery{Page: 1, PageSize: 2})

	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
	assert.EqualValues(t, 3, list.Total)
	assert.True(t, decimal.RequireFromString("110.4").Equal(list.TotalAmount))
}

func TestOrderService_CheckoutCreatesMissingCustomer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	provider := &mockProvider{}
	provider.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_new", nil).Once()
	provider.On("Charge", mock.Anything, mock.MatchedBy(func(p payment.ChargeParams) bool {
		return p.CustomerID == "cus_new"
	})).Return(&payment.ChargeResult{ID: "pi_1", Status: models.PaymentStatusPending, RedirectURL: "https://pay.test/1"}, nil)

	svc := NewOrderService(env.store, provider, nil, testPricing())
	user := createUser(t, env, "fresh@example.com", models.UserRoleCustomer)
	product := createProduct(t, env, "10", 1)

	order, err := svc.Checkout(ctx, user, checkoutRequest(product.ID, 1))

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentInfo.Status)
	assert.Equal(t, "https://pay.test/1", order.PaymentInfo.RedirectURL)
	assert.Nil(t, order.PaidAt)

	stored, err := env.store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cus_new", stored.PaymentCustomerID)
}
