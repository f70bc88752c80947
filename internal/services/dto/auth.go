package dto

import (
	"mime/multipart"

	"storefront_backend/internal/models"
)

// RegisterRequest arrives as JSON or as multipart with an optional "avatar" file.
type RegisterRequest struct {
	Name     string                `json:"name" form:"name" validate:"required,max=30"`
	Email    string                `json:"email" form:"email" validate:"required,email"`
	Password string                `json:"password" form:"password" validate:"required,min=8"`
	Avatar   *multipart.FileHeader `json:"-" form:"-"`
}

// LoginRequest is checked in the service so that missing fields get the login message.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
}

// AuthResult is what every token-issuing operation returns.
type AuthResult struct {
	User  *models.User
	Token string
}
