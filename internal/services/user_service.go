package services

import (
	"context"
	"errors"
	"strings"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

// UserService управление аккаунтами со стороны администратора.
type UserService interface {
	ListUsers(ctx context.Context, query *dto.UserQuery) ([]models.User, int64, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, actorID, id string, req *dto.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

type userService struct {
	users  repositories.UserRepository
	images ImageService
}

func NewUserService(users repositories.UserRepository, images ImageService) UserService {
	return &userService{users: users, images: images}
}

func (s *userService) ListUsers(ctx context.Context, query *dto.UserQuery) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, repositories.UserFilter{
		Keyword:    strings.TrimSpace(query.Keyword),
		Role:       query.Role,
		Pagination: pagination(query.Page, query.PageSize),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return users, total, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}

	// Администратор не может снять роль с самого себя.
	if actorID == id && req.Role != user.Role {
		return nil, apperrors.ErrCannotModifySelf
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = normalizeEmail(req.Email)
	user.Role = req.Role

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}

	logger.CtxInfo(ctx, "User updated by admin", "user_id", id, "role", user.Role)
	return user, nil
}

// DeleteUser удаляет аватар (ошибки только логируются), затем аккаунт.
func (s *userService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return apperrors.ErrCannotModifySelf
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return repoError(err, apperrors.ErrUserNotFound)
	}

	if !user.Avatar.IsZero() {
		s.images.Delete(ctx, user.Avatar)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return repoError(err, apperrors.ErrUserNotFound)
	}

	logger.CtxInfo(ctx, "User deleted", "user_id", id)
	return nil
}
