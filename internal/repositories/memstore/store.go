// Package memstore keeps every record in process memory. It backs the test suite
// and the "memory" database driver for local development.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users         *table[models.User]
	products      *table[models.Product]
	orders        *table[models.Order]
	coupons       *table[models.Coupon]
	subscriptions *table[models.Subscription]
}

func New() *Store {
	return &Store{
		now:   time.Now,
		users: newTable(func(u models.User) models.User { return u }),
		products: newTable(func(p models.Product) models.Product {
			p.Images = slices.Clone(p.Images)
			return p
		}),
		orders: newTable(func(o models.Order) models.Order {
			o.OrderItems = slices.Clone(o.OrderItems)
			return o
		}),
		coupons:       newTable(func(c models.Coupon) models.Coupon { return c }),
		subscriptions: newTable(func(s models.Subscription) models.Subscription { return s }),
	}
}

func (s *Store) Users() repositories.UserRepository                 { return &userRepository{s} }
func (s *Store) Products() repositories.ProductRepository           { return &productRepository{s} }
func (s *Store) Orders() repositories.OrderRepository               { return &orderRepository{s} }
func (s *Store) Coupons() repositories.CouponRepository             { return &couponRepository{s} }
func (s *Store) Subscriptions() repositories.SubscriptionRepository { return &subscriptionRepository{s} }

func (s *Store) Migrate(ctx context.Context) error { return nil }
func (s *Store) Ping(ctx context.Context) error    { return nil }
func (s *Store) Close(ctx context.Context) error   { return nil }

// table is an insertion-ordered map that hands out copies of its rows.
type table[T any] struct {
	rows  map[string]T
	order []string
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	cp := t.clone(row)
	return &cp, true
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) put(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(row)
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(v string) bool { return v == id })
	return true
}

// newestFirst returns copies of matching rows, most recently inserted first.
func (t *table[T]) newestFirst(match func(*T) bool) []T {
	out := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		row := t.rows[t.order[i]]
		if match == nil || match(&row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

func page[T any](rows []T, p repositories.Pagination) ([]T, int64) {
	start, end := p.Window(len(rows))
	return rows[start:end], int64(len(rows))
}
