package dto

import (
	"mime/multipart"

	"storefront_backend/internal/models"
)

type UpdateProfileRequest struct {
	Name   string                `json:"name" form:"name" validate:"required,max=30"`
	Email  string                `json:"email" form:"email" validate:"required,email"`
	Avatar *multipart.FileHeader `json:"-" form:"-"`
}

type UpdateUserRequest struct {
	Name  string          `json:"name" form:"name" validate:"required,max=30"`
	Email string          `json:"email" form:"email" validate:"required,email"`
	Role  models.UserRole `json:"role" form:"role" validate:"required,is-user-role"`
}

type UserQuery struct {
	Keyword  string          `form:"keyword"`
	Role     models.UserRole `form:"role" validate:"omitempty,is-user-role"`
	Page     int             `form:"page" validate:"omitempty,min=1"`
	PageSize int             `form:"page_size" validate:"omitempty,min=1,max=100"`
}
