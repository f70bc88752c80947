package services

import (
	"errors"

	"storefront_backend/internal/repositories"
	"storefront_backend/pkg/apperrors"
)

// repoError переводит ошибки репозитория в AppError. Для ErrNotFound возвращается notFound.
func repoError(err error, notFound *apperrors.AppError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return notFound
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.ErrAlreadyExists(err)
	case errors.Is(err, repositories.ErrInsufficientStock):
		return apperrors.ErrInsufficientStock
	case errors.Is(err, repositories.ErrCouponExhausted):
		return apperrors.ErrCouponExhausted
	}
	return apperrors.InternalError(err)
}

func pagination(page, pageSize int) repositories.Pagination {
	return repositories.Pagination{Page: page, PageSize: pageSize}
}
