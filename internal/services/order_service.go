package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	OrderEventCreated = "order.created"
	OrderEventUpdated = "order.updated"
	OrderEventDeleted = "order.deleted"
)

// OrderPublisher получает события заказов для ленты администратора.
type OrderPublisher interface {
	PublishOrderEvent(event dto.OrderEvent)
}

type OrderService interface {
	// Checkout считает корзину по каталогу, резервирует остатки, погашает купон и списывает оплату.
	Checkout(ctx context.Context, user *models.User, req *dto.CheckoutRequest) (*models.Order, error)
	// GetOrder возвращает заказ владельцу или администратору.
	GetOrder(ctx context.Context, user *models.User, id string) (*models.Order, error)
	MyOrders(ctx context.Context, userID string, query *dto.OrderQuery) ([]models.Order, int64, error)
	ListOrders(ctx context.Context, query *dto.OrderQuery) (*dto.OrderList, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// OrderPricing правила налога и доставки при оформлении заказа.
type OrderPricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	Currency              string
}

type orderService struct {
	orders    repositories.OrderRepository
	products  repositories.ProductRepository
	coupons   repositories.CouponRepository
	users     repositories.UserRepository
	payments  payment.Provider
	publisher OrderPublisher
	pricing   OrderPricing
}

func NewOrderService(store repositories.Store, payments payment.Provider, publisher OrderPublisher, pricing OrderPricing) OrderService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &orderService{
		orders:    store.Orders(),
		products:  store.Products(),
		coupons:   store.Coupons(),
		users:     store.Users(),
		payments:  payments,
		publisher: publisher,
		pricing:   pricing,
	}
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderEvent(dto.OrderEvent) {}

func (s *orderService) Checkout(ctx context.Context, user *models.User, req *dto.CheckoutRequest) (*models.Order, error) {
	items, err := s.buildItems(ctx, req.OrderItems)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:     user.ID,
		OrderItems: items,
		ShippingInfo: models.ShippingInfo{
			Address: req.ShippingInfo.Address,
			City:    req.ShippingInfo.City,
			State:   req.ShippingInfo.State,
			Country: req.ShippingInfo.Country,
			PinCode: req.ShippingInfo.PinCode,
			PhoneNo: req.ShippingInfo.PhoneNo,
		},
		OrderStatus: models.OrderStatusProcessing,
	}
	order.EnsureID()

	var coupon *models.Coupon
	itemsPrice := sumItems(items)
	discount := decimal.Zero
	if req.CouponCode != "" {
		if coupon, discount, err = evaluateCoupon(ctx, s.coupons, req.CouponCode, itemsPrice, time.Now()); err != nil {
			return nil, err
		}
		order.CouponCode = coupon.Code
	}
	s.applyTotals(order, itemsPrice, discount)

	if err := s.reserveStock(ctx, items); err != nil {
		return nil, err
	}

	if coupon != nil {
		if err := s.coupons.IncrementUsage(ctx, coupon.ID); err != nil {
			s.releaseStock(ctx, items)
			return nil, repoError(err, apperrors.ErrCouponNotFound)
		}
	}

	info, err := s.settle(ctx, user, order, req.PaymentMethod)
	if err != nil {
		logger.CtxWithError(ctx, "Checkout payment failed", err, "order_id", order.ID, "amount", order.TotalPrice.String())
		s.releaseStock(ctx, items)
		if coupon != nil {
			s.releaseCoupon(ctx, coupon.ID)
		}
		return nil, apperrors.ErrPaymentFailed(err)
	}
	order.PaymentInfo = info
	if info.Status == models.PaymentStatusSucceeded {
		now := time.Now()
		order.PaidAt = &now
	}

	if err := s.orders.Create(ctx, order); err != nil {
		// Оплата прошла, заказ придётся сверять вручную.
		logger.CtxWithError(ctx, "Failed to save paid order", err, "order_id", order.ID, "charge_id", order.PaymentInfo.ChargeID)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Order placed", "order_id", order.ID, "total", order.TotalPrice.String(), "payment_status", order.PaymentInfo.Status)
	s.publish(OrderEventCreated, order)
	return order, nil
}

// buildItems копирует название, цену и изображение из каталога. Повторы товара объединяются,
// итоговое количество не должно превышать MaxItemQuantity и текущий остаток.
func (s *orderService) buildItems(ctx context.Context, reqItems []dto.OrderItemRequest) ([]models.OrderItem, error) {
	if len(reqItems) == 0 {
		return nil, apperrors.ErrEmptyOrder
	}

	index := make(map[string]int, len(reqItems))
	items := make([]models.OrderItem, 0, len(reqItems))
	stock := make([]int, 0, len(reqItems))
	for _, ri := range reqItems {
		if ri.Quantity < 1 || ri.Quantity > dto.MaxItemQuantity {
			return nil, apperrors.ErrInvalidQuantity.WithDetails(map[string]string{"product": ri.ProductID})
		}
		if i, ok := index[ri.ProductID]; ok {
			// Оба значения ограничены, переполнения нет.
			if items[i].Quantity > dto.MaxItemQuantity-ri.Quantity {
				return nil, apperrors.ErrInvalidQuantity.WithDetails(map[string]string{"product": ri.ProductID})
			}
			items[i].Quantity += ri.Quantity
			continue
		}

		product, err := s.products.FindByID(ctx, ri.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.ErrProductNotFound.WithDetails(map[string]string{"product": ri.ProductID})
			}
			return nil, apperrors.InternalError(err)
		}

		index[ri.ProductID] = len(items)
		stock = append(stock, product.Stock)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  ri.Quantity,
			Image:     product.MainImage(),
		})
	}

	for i, item := range items {
		if item.Quantity > stock[i] {
			return nil, apperrors.ErrInsufficientStock.WithDetails(map[string]string{"product": item.ProductID, "name": item.Name})
		}
	}
	return items, nil
}

func sumItems(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (s *orderService) applyTotals(order *models.Order, itemsPrice, discount decimal.Decimal) {
	subtotal := itemsPrice.Sub(discount)

	shipping := s.pricing.ShippingFee
	if !s.pricing.FreeShippingThreshold.IsZero() && itemsPrice.GreaterThanOrEqual(s.pricing.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	order.ItemsPrice = itemsPrice.Round(2)
	order.Discount = discount.Round(2)
	order.TaxPrice = subtotal.Mul(s.pricing.TaxRate).Round(2)
	order.ShippingPrice = shipping.Round(2)
	order.TotalPrice = subtotal.Add(order.TaxPrice).Add(order.ShippingPrice).Round(2)
}

// reserveStock списывает остатки по всем позициям или ни по одной.
func (s *orderService) reserveStock(ctx context.Context, items []models.OrderItem) error {
	for i, item := range items {
		if err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			s.releaseStock(ctx, items[:i])
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return apperrors.ErrInsufficientStock.WithDetails(map[string]string{"product": item.ProductID, "name": item.Name})
			}
			return repoError(err, apperrors.ErrProductNotFound)
		}
	}
	return nil
}

func (s *orderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			logger.CtxWithError(ctx, "Failed to restore stock", err, "product_id", item.ProductID, "quantity", item.Quantity)
		}
	}
}

func (s *orderService) releaseCoupon(ctx context.Context, couponID string) {
	if err := s.coupons.DecrementUsage(ctx, couponID); err != nil {
		logger.CtxWithError(ctx, "Failed to release coupon use", err, "coupon_id", couponID)
	}
}

// settle списывает сумму заказа. Заказ с нулевой суммой считается оплаченным без списания.
func (s *orderService) settle(ctx context.Context, user *models.User, order *models.Order, method string) (models.PaymentInfo, error) {
	if !order.TotalPrice.IsPositive() {
		return models.PaymentInfo{
			Status:   models.PaymentStatusSucceeded,
			Provider: models.PaymentProviderNone,
		}, nil
	}

	result, err := s.charge(ctx, user, order, method)
	if err != nil {
		return models.PaymentInfo{}, err
	}
	return models.PaymentInfo{
		ChargeID:    result.ID,
		Status:      result.Status,
		Provider:    s.payments.Name(),
		RedirectURL: result.RedirectURL,
	}, nil
}

func (s *orderService) charge(ctx context.Context, user *models.User, order *models.Order, method string) (*payment.ChargeResult, error) {
	customerID, err := ensureCustomer(ctx, s.users, s.payments, user)
	if err != nil {
		return nil, err
	}

	result, err := s.payments.Charge(ctx, payment.ChargeParams{
		CustomerID:    customerID,
		Amount:        order.TotalPrice,
		Currency:      s.pricing.Currency,
		Description:   fmt.Sprintf("Order %s", order.ID),
		Reference:     order.ID,
		Email:         user.Email,
		Name:          user.Name,
		PaymentMethod: method,
	})
	if err != nil {
		return nil, err
	}
	if result.Status == models.PaymentStatusFailed {
		return nil, fmt.Errorf("charge %s was declined", result.ID)
	}
	return result, nil
}

// ensureCustomer создаёт клиента у платёжного провайдера при первом обращении и сохраняет его id.
func ensureCustomer(ctx context.Context, users repositories.UserRepository, payments payment.Provider, user *models.User) (string, error) {
	if user.PaymentCustomerID != "" {
		return user.PaymentCustomerID, nil
	}

	id, err := payments.CreateCustomer(ctx, payment.CustomerParams{Email: user.Email, Name: user.Name})
	if err != nil {
		return "", err
	}
	user.PaymentCustomerID = id
	if err := users.Update(ctx, user); err != nil {
		logger.CtxWithError(ctx, "Failed to save payment customer id", err, "user_id", user.ID)
	}
	return id, nil
}

func (s *orderService) GetOrder(ctx context.Context, user *models.User, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrOrderNotFound)
	}
	// Чужой заказ выглядит как несуществующий.
	if !auth.CanAccessOwned(user, order.UserID) {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) MyOrders(ctx context.Context, userID string, query *dto.OrderQuery) ([]models.Order, int64, error) {
	orders, total, err := s.orders.List(ctx, repositories.OrderFilter{
		UserID:     userID,
		Status:     query.Status,
		Pagination: pagination(query.Page, query.PageSize),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return orders, total, nil
}

func (s *orderService) ListOrders(ctx context.Context, query *dto.OrderQuery) (*dto.OrderList, error) {
	filter := repositories.OrderFilter{
		Status:     query.Status,
		Pagination: pagination(query.Page, query.PageSize),
	}
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Выручка считается по всем подходящим заказам, а не только по странице.
	all := orders
	if filter.PageSize > 0 && int64(len(orders)) < total {
		filter.Pagination = repositories.Pagination{}
		if all, _, err = s.orders.List(ctx, filter); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	amount := decimal.Zero
	for _, o := range all {
		amount = amount.Add(o.TotalPrice)
	}

	return &dto.OrderList{Orders: orders, Total: total, TotalAmount: amount}, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrOrderNotFound)
	}

	if !order.OrderStatus.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": string(order.OrderStatus),
			"to":   string(status),
		})
	}

	now := time.Now()
	switch status {
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	case models.OrderStatusCancelled:
		s.releaseStock(ctx, order.OrderItems)
		if order.CouponCode != "" {
			if coupon, err := s.coupons.FindByCode(ctx, order.CouponCode); err == nil {
				s.releaseCoupon(ctx, coupon.ID)
			}
		}
	}
	order.OrderStatus = status

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, repoError(err, apperrors.ErrOrderNotFound)
	}

	logger.CtxInfo(ctx, "Order status updated", "order_id", id, "status", status)
	s.publish(OrderEventUpdated, order)
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return repoError(err, apperrors.ErrOrderNotFound)
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return repoError(err, apperrors.ErrOrderNotFound)
	}
	s.publish(OrderEventDeleted, order)
	return nil
}

func (s *orderService) publish(eventType string, order *models.Order) {
	s.publisher.PublishOrderEvent(dto.OrderEvent{
		Type:    eventType,
		OrderID: order.ID,
		Status:  string(order.OrderStatus),
		Total:   order.TotalPrice.StringFixed(2),
		UserID:  order.UserID,
		Order:   order,
	})
}
