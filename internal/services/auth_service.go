package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/email"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	// ForgotPassword отправляет ссылку сброса и возвращает адрес получателя.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*dto.AuthResult, error)
	UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*dto.AuthResult, error)
	GetMe(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error)
}

type AuthConfig struct {
	FrontendURL   string
	ResetTokenTTL time.Duration
}

type authService struct {
	users    repositories.UserRepository
	tokens   *auth.TokenManager
	images   ImageService
	payments payment.Provider
	mailer   email.Mailer
	config   AuthConfig
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.TokenManager,
	images ImageService,
	payments payment.Provider,
	mailer email.Mailer,
	config AuthConfig,
) AuthService {
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = 15 * time.Minute
	}
	return &authService{
		users:    users,
		tokens:   tokens,
		images:   images,
		payments: payments,
		mailer:   mailer,
		config:   config,
	}
}

// Register создаёт аккаунт покупателя и выполняет вход.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	emailAddr := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, emailAddr); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         models.UserRoleCustomer,
	}

	if req.Avatar != nil {
		avatar, err := s.uploadAvatar(ctx, req.Avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = avatar
	}

	// Клиент провайдера будет создан позже, при первой оплате.
	customerID, err := s.payments.CreateCustomer(ctx, payment.CustomerParams{Email: user.Email, Name: user.Name})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to create payment customer", err, "email", user.Email)
	} else {
		user.PaymentCustomerID = customerID
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.images.Delete(ctx, user.Avatar)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return "", repoError(err, apperrors.ErrUserNotFound)
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	expire := time.Now().Add(s.config.ResetTokenTTL)
	user.ResetPasswordToken = hash
	user.ResetPasswordExpire = &expire

	if err := s.users.Update(ctx, user); err != nil {
		return "", repoError(err, apperrors.ErrUserNotFound)
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", strings.TrimSuffix(s.config.FrontendURL, "/"), token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		logger.CtxWithError(ctx, "Failed to send password reset email", err, "user_id", user.ID)

		user.ClearResetToken()
		if uErr := s.users.Update(ctx, user); uErr != nil {
			logger.CtxWithError(ctx, "Failed to clear reset token", uErr, "user_id", user.ID)
		}
		return "", apperrors.ErrEmailNotSent.WithError(err)
	}

	return user.Email, nil
}

func (s *authService) ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*dto.AuthResult, error) {
	user, err := s.users.FindByResetToken(ctx, auth.HashResetToken(token), time.Now())
	if err != nil {
		return nil, repoError(err, apperrors.ErrInvalidResetToken)
	}

	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	if err := s.setPassword(user, req.Password); err != nil {
		return nil, err
	}
	user.ClearResetToken()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}
	return s.issue(user)
}

func (s *authService) UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*dto.AuthResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}

	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return nil, apperrors.ErrOldPasswordIncorrect
	}
	if req.NewPassword != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	if err := s.setPassword(user, req.NewPassword); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}
	return s.issue(user)
}

func (s *authService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile сохраняет новый аватар, обновляет запись и удаляет старый файл.
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}

	oldAvatar := user.Avatar
	var newAvatar models.Image
	if req.Avatar != nil {
		if newAvatar, err = s.uploadAvatar(ctx, req.Avatar); err != nil {
			return nil, err
		}
		user.Avatar = newAvatar
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = normalizeEmail(req.Email)

	if err := s.users.Update(ctx, user); err != nil {
		s.images.Delete(ctx, newAvatar)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, repoError(err, apperrors.ErrUserNotFound)
	}

	if !newAvatar.IsZero() && !oldAvatar.IsZero() {
		s.images.Delete(ctx, oldAvatar)
	}
	return user, nil
}

func (s *authService) uploadAvatar(ctx context.Context, fh *multipart.FileHeader) (models.Image, error) {
	images, err := s.images.Upload(ctx, FolderAvatars, []*multipart.FileHeader{fh})
	if err != nil {
		return models.Image{}, err
	}
	return images[0], nil
}

func (s *authService) setPassword(user *models.User, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	return nil
}

func (s *authService) issue(user *models.User) (*dto.AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
