package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/models"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv, mailer *mockMailer) AuthService {
	return NewAuthService(env.store.Users(), env.tokens, env.images, env.sandbox, mailer, AuthConfig{
		FrontendURL:   "http://shop.test",
		ResetTokenTTL: 15 * time.Minute,
	})
}

func TestAuthService_Register(t *testing.T) {
	// --- Arrange ---
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})
	req := &dto.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
		Avatar:   fileHeader(t, "me.png", "image/png", pngBytes(t, 10, 10)),
	}

	// --- Act ---
	res, err := svc.Register(context.Background(), req)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, models.UserRoleCustomer, res.User.Role)
	assert.NotEmpty(t, res.User.PaymentCustomerID)
	assert.True(t, strings.HasPrefix(res.User.Avatar.URL, "/files/avatars/"))

	exists, err := env.storage.Exists(context.Background(), res.User.Avatar.Key)
	require.NoError(t, err)
	assert.True(t, exists)

	claims, err := env.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID())
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})
	createUser(t, env, "taken@example.com", models.UserRoleCustomer)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Bob", Email: "TAKEN@example.com", Password: "password123",
	})

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_RegisterRejectsBadAvatar(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "password123",
		Avatar: fileHeader(t, "me.gif", "image/gif", []byte("GIF89a")),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
	_, findErr := env.store.Users().FindByEmail(context.Background(), "bob@example.com")
	assert.Error(t, findErr, "no account is created when the avatar is rejected")
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})
	user := createUser(t, env, "login@example.com", models.UserRoleCustomer)

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{"valid credentials", dto.LoginRequest{Email: "LOGIN@example.com", Password: "password123"}, nil},
		{"wrong password", dto.LoginRequest{Email: "login@example.com", Password: "nope-nope"}, apperrors.ErrInvalidCredentials},
		{"unknown email", dto.LoginRequest{Email: "ghost@example.com", Password: "password123"}, apperrors.ErrInvalidCredentials},
		{"missing password", dto.LoginRequest{Email: "login@example.com"}, apperrors.ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, res.User.ID)
			assert.NotEmpty(t, res.Token)
		})
	}
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	env := newTestEnv(t)
	mailer := &mockMailer{}
	svc := newAuthService(env, mailer)
	user := createUser(t, env, "reset@example.com", models.UserRoleCustomer)

	mailer.On("SendPasswordReset", mock.Anything, "reset@example.com", "Test", mock.AnythingOfType("string")).Return(nil)

	// --- Act ---
	sentTo, err := svc.ForgotPassword(ctx, "reset@example.com")
	require.NoError(t, err)

	resetURL := mailer.Calls[0].Arguments.String(3)
	require.True(t, strings.HasPrefix(resetURL, "http://shop.test/password/reset/"))
	token := strings.TrimPrefix(resetURL, "http://shop.test/password/reset/")

	res, err := svc.ResetPassword(ctx, token, &dto.ResetPasswordRequest{Password: "newpassword1", ConfirmPassword: "newpassword1"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "reset@example.com", sentTo)
	assert.Equal(t, user.ID, res.User.ID)

	stored, err := env.store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("newpassword1", stored.PasswordHash))
	assert.Empty(t, stored.ResetPasswordToken)

	_, err = svc.ResetPassword(ctx, token, &dto.ResetPasswordRequest{Password: "another12", ConfirmPassword: "another12"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken, "a token works only once")
}

func TestAuthService_ResetPasswordExpiredToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})

	token, hash, err := auth.NewResetToken()
	require.NoError(t, err)
	user := createUser(t, env, "late@example.com", models.UserRoleCustomer)
	past := time.Now().Add(-time.Minute)
	user.ResetPasswordToken = hash
	user.ResetPasswordExpire = &past
	require.NoError(t, env.store.Users().Update(ctx, user))

	_, err = svc.ResetPassword(ctx, token, &dto.ResetPasswordRequest{Password: "newpassword1", ConfirmPassword: "newpassword1"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestAuthService_ForgotPasswordMailFailureClearsToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	mailer := &mockMailer{}
	svc := newAuthService(env, mailer)
	user := createUser(t, env, "nomail@example.com", models.UserRoleCustomer)

	mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	_, err := svc.ForgotPassword(ctx, user.Email)

	assert.ErrorIs(t, err, apperrors.ErrEmailNotSent)
	stored, err := env.store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})
	user := createUser(t, env, "pw@example.com", models.UserRoleCustomer)

	_, err := svc.UpdatePassword(ctx, user.ID, &dto.UpdatePasswordRequest{OldPassword: "wrong-one", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	assert.ErrorIs(t, err, apperrors.ErrOldPasswordIncorrect)

	_, err = svc.UpdatePassword(ctx, user.ID, &dto.UpdatePasswordRequest{OldPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "different1"})
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)

	res, err := svc.UpdatePassword(ctx, user.ID, &dto.UpdatePasswordRequest{OldPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestAuthService_UpdateProfileReplacesAvatar(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newAuthService(env, &mockMailer{})

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "Carol", Email: "carol@example.com", Password: "password123",
		Avatar: fileHeader(t, "a.png", "image/png", pngBytes(t, 4, 4)),
	})
	require.NoError(t, err)
	oldKey := reg.User.Avatar.Key

	// --- Act ---
	updated, err := svc.UpdateProfile(ctx, reg.User.ID, &dto.UpdateProfileRequest{
		Name: "Caroline", Email: "caroline@example.com",
		Avatar: fileHeader(t, "b.png", "image/png", pngBytes(t, 4, 4)),
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Name)
	assert.NotEqual(t, oldKey, updated.Avatar.Key)

	stored, err := env.store.Users().FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "caroline@example.com", stored.Email)

	oldExists, err := env.storage.Exists(ctx, oldKey)
	require.NoError(t, err)
	assert.False(t, oldExists)
}

func TestUserService_DeleteUserRemovesAvatar(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	authSvc := newAuthService(env, &mockMailer{})
	users := NewUserService(env.store.Users(), env.images)
	admin := createUser(t, env, "admin@example.com", models.UserRoleAdmin)

	reg, err := authSvc.Register(ctx, &dto.RegisterRequest{
		Name: "Dan", Email: "dan@example.com", Password: "password123",
		Avatar: fileHeader(t, "d.png", "image/png", pngBytes(t, 4, 4)),
	})
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, admin.ID, reg.User.ID))

	_, err = users.GetUser(ctx, reg.User.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	exists, err := env.storage.Exists(ctx, reg.User.Avatar.Key)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, users.DeleteUser(ctx, admin.ID, admin.ID), apperrors.ErrCannotModifySelf)
}

func TestUserService_UpdateUserRole(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.store.Users(), env.images)
	admin := createUser(t, env, "root@example.com", models.UserRoleAdmin)
	customer := createUser(t, env, "cust@example.com", models.UserRoleCustomer)

	updated, err := users.UpdateUser(ctx, admin.ID, customer.ID, &dto.UpdateUserRequest{
		Name: "Promoted", Email: "cust@example.com", Role: models.UserRoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, updated.Role)

	_, err = users.UpdateUser(ctx, admin.ID, admin.ID, &dto.UpdateUserRequest{
		Name: "Root", Email: "root@example.com", Role: models.UserRoleCustomer,
	})
	assert.ErrorIs(t, err, apperrors.ErrCannotModifySelf)
}
