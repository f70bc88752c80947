package gormstore

import (
	"context"
	"strings"
	"time"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return findByID[models.User](ctx, r.db, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return updateAll(ctx, r.db, user)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[models.User](ctx, r.db, id)
}

func (r *UserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Keyword != "" {
		kw := likePattern(strings.ToLower(filter.Keyword))
		q = q.Where("LOWER(name) LIKE ? OR email LIKE ?", kw, kw)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	return paginate[models.User](q, filter.Pagination, "created_at DESC")
}
