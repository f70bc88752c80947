package repositories

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
)

// Store единая точка доступа к хранилищу. Каждый backend (mongo, gorm, memory)
// реализует его, сервисы видят только эти интерфейсы.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Coupons() CouponRepository
	Subscriptions() SubscriptionRepository

	// Migrate создаёт нужные таблицы или индексы.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Pagination выбирает страницу результатов. Нулевой PageSize возвращает всё.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.PageSize
}

// Window применяет пагинацию к длине среза и возвращает границы [start, end).
func (p Pagination) Window(total int) (int, int) {
	start := p.Offset()
	if start > total {
		start = total
	}
	end := total
	if p.PageSize > 0 && start+p.PageSize < total {
		end = start + p.PageSize
	}
	return start, end
}
