package memstore

import (
	"context"
	"strings"
	"time"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if r.emailTaken(user.Email, "") {
		return repositories.ErrDuplicate
	}
	user.EnsureID()
	user.Touch(r.s.now())
	r.s.users.put(user.ID, *user)
	return nil
}

func (r *userRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.s.users.rows {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for id, u := range r.s.users.rows {
		if u.Email == email {
			found, _ := r.s.users.get(id)
			return found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if tokenHash == "" {
		return nil, repositories.ErrNotFound
	}
	for id, u := range r.s.users.rows {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			found, _ := r.s.users.get(id)
			return found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.users.has(user.ID) {
		return repositories.ErrNotFound
	}
	user.Email = strings.ToLower(user.Email)
	if r.emailTaken(user.Email, user.ID) {
		return repositories.ErrDuplicate
	}
	user.Touch(r.s.now())
	r.s.users.put(user.ID, *user)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.users.remove(id) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter repositories.UserFilter) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	kw := strings.ToLower(filter.Keyword)
	rows := r.s.users.newestFirst(func(u *models.User) bool {
		if filter.Role != "" && u.Role != filter.Role {
			return false
		}
		return kw == "" || strings.Contains(strings.ToLower(u.Name), kw) || strings.Contains(u.Email, kw)
	})
	users, total := page(rows, filter.Pagination)
	return users, total, nil
}

type productRepository struct{ s *Store }

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product.EnsureID()
	product.Touch(r.s.now())
	r.s.products.put(product.ID, *product)
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.products.has(product.ID) {
		return repositories.ErrNotFound
	}
	product.Touch(r.s.now())
	r.s.products.put(product.ID, *product)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.products.remove(id) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	kw := strings.ToLower(filter.Keyword)
	rows := r.s.products.newestFirst(func(p *models.Product) bool {
		if kw != "" && !strings.Contains(strings.ToLower(p.Name), kw) {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			return false
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			return false
		}
		return true
	})
	products, total := page(rows, filter.Pagination)
	return products, total, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products.get(id)
	if !ok {
		return repositories.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return repositories.ErrInsufficientStock
	}
	p.Stock += delta
	r.s.products.put(id, *p)
	return nil
}

type orderRepository struct{ s *Store }

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.EnsureID()
	order.Touch(r.s.now())
	r.s.orders.put(order.ID, *order)
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.orders.has(order.ID) {
		return repositories.ErrNotFound
	}
	order.Touch(r.s.now())
	r.s.orders.put(order.ID, *order)
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.orders.remove(id) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.orders.newestFirst(func(o *models.Order) bool {
		if filter.UserID != "" && o.UserID != filter.UserID {
			return false
		}
		return filter.Status == "" || o.OrderStatus == filter.Status
	})
	orders, total := page(rows, filter.Pagination)
	return orders, total, nil
}

type couponRepository struct{ s *Store }

func (r *couponRepository) codeTaken(code, exceptID string) bool {
	for id, c := range r.s.coupons.rows {
		if c.Code == code && id != exceptID {
			return true
		}
	}
	return false
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	coupon.Code = strings.ToUpper(coupon.Code)
	if r.codeTaken(coupon.Code, "") {
		return repositories.ErrDuplicate
	}
	coupon.EnsureID()
	coupon.Touch(r.s.now())
	r.s.coupons.put(coupon.ID, *coupon)
	return nil
}

func (r *couponRepository) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.coupons.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	code = strings.ToUpper(code)
	for id, c := range r.s.coupons.rows {
		if c.Code == code {
			found, _ := r.s.coupons.get(id)
			return found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *couponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.coupons.has(coupon.ID) {
		return repositories.ErrNotFound
	}
	coupon.Code = strings.ToUpper(coupon.Code)
	if r.codeTaken(coupon.Code, coupon.ID) {
		return repositories.ErrDuplicate
	}
	coupon.Touch(r.s.now())
	r.s.coupons.put(coupon.ID, *coupon)
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.coupons.remove(id) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *couponRepository) List(ctx context.Context, filter repositories.CouponFilter) ([]models.Coupon, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.coupons.newestFirst(func(c *models.Coupon) bool {
		return filter.Active == nil || c.Active == *filter.Active
	})
	coupons, total := page(rows, filter.Pagination)
	return coupons, total, nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.coupons.get(id)
	if !ok {
		return repositories.ErrNotFound
	}
	if c.Exhausted() {
		return repositories.ErrCouponExhausted
	}
	c.UsedCount++
	r.s.coupons.put(id, *c)
	return nil
}

func (r *couponRepository) DecrementUsage(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.coupons.get(id)
	if !ok {
		return repositories.ErrNotFound
	}
	if c.UsedCount > 0 {
		c.UsedCount--
		r.s.coupons.put(id, *c)
	}
	return nil
}

type subscriptionRepository struct{ s *Store }

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub.EnsureID()
	sub.Touch(r.s.now())
	r.s.subscriptions.put(sub.ID, *sub)
	return nil
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subscriptions.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return sub, nil
}

func (r *subscriptionRepository) FindActiveByUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *models.Subscription
	for _, sub := range r.s.subscriptions.newestFirst(nil) {
		if sub.UserID != userID || !sub.IsActiveAt(now) {
			continue
		}
		if found == nil || sub.EndDate.After(found.EndDate) {
			cp := sub
			found = &cp
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.subscriptions.has(sub.ID) {
		return repositories.ErrNotFound
	}
	sub.Touch(r.s.now())
	r.s.subscriptions.put(sub.ID, *sub)
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.subscriptions.remove(id) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter repositories.SubscriptionFilter) ([]models.Subscription, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.subscriptions.newestFirst(func(sub *models.Subscription) bool {
		if filter.UserID != "" && sub.UserID != filter.UserID {
			return false
		}
		return filter.Status == "" || sub.Status == filter.Status
	})
	subs, total := page(rows, filter.Pagination)
	return subs, total, nil
}

func (r *subscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var expired int64
	for id, sub := range r.s.subscriptions.rows {
		if sub.Status == models.SubscriptionStatusActive && sub.EndDate.Before(now) {
			sub.Status = models.SubscriptionStatusExpired
			sub.UpdatedAt = now
			r.s.subscriptions.rows[id] = sub
			expired++
		}
	}
	return expired, nil
}
