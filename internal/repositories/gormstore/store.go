package gormstore

import (
	"context"
	"errors"
	"fmt"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store implements repositories.Store on top of gorm (postgres or mysql).
type Store struct {
	db            *gorm.DB
	users         *UserRepository
	products      *ProductRepository
	orders        *OrderRepository
	coupons       *CouponRepository
	subscriptions *SubscriptionRepository
}

// Open connects with the dialect matching driver ("postgres" or "mysql").
func Open(driver, dsn string, cfg *gorm.Config) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}
	cfg.TranslateError = true

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return New(db), nil
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		users:         &UserRepository{db: db},
		products:      &ProductRepository{db: db},
		orders:        &OrderRepository{db: db},
		coupons:       &CouponRepository{db: db},
		subscriptions: &SubscriptionRepository{db: db},
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() repositories.UserRepository                 { return s.users }
func (s *Store) Products() repositories.ProductRepository           { return s.products }
func (s *Store) Orders() repositories.OrderRepository               { return s.orders }
func (s *Store) Coupons() repositories.CouponRepository             { return s.coupons }
func (s *Store) Subscriptions() repositories.SubscriptionRepository { return s.subscriptions }

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Coupon{},
		&models.Subscription{},
	)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	}
	return err
}

func findByID[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var record T
	if err := db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func updateAll(ctx context.Context, db *gorm.DB, record any) error {
	res := db.WithContext(ctx).Model(record).Select("*").Omit("created_at").Updates(record)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id string) error {
	var record T
	res := db.WithContext(ctx).Delete(&record, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// paginate counts the filtered query and then loads one page of it.
func paginate[T any](q *gorm.DB, p repositories.Pagination, order string) ([]T, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q = q.Order(order).Offset(p.Offset())
	if p.Limit() > 0 {
		q = q.Limit(p.Limit())
	}

	var records []T
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, translate(err)
	}
	return records, total, nil
}

func likePattern(keyword string) string {
	return "%" + keyword + "%"
}
