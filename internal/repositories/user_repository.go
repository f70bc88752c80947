package repositories

import (
	"context"
	"time"

	"storefront_backend/internal/models"
)

type UserFilter struct {
	Keyword string
	Role    models.UserRole
	Pagination
}

type UserRepository interface {
	// Create возвращает ErrDuplicate, если email уже занят.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByResetToken ищет аккаунт по хешу токена сброса, срок которого позже now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	// Update возвращает ErrDuplicate, если новый email принадлежит другому аккаунту.
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}
