package middleware

import (
	"errors"
	"fmt"
	"strings"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/pkg/apperrors"
	"storefront_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

const TokenCookie = "token"

// AuthMiddleware проверяет JWT из cookie token или заголовка Bearer
// и добавляет пользователя в контекст. Если есть оба, используется cookie.
func AuthMiddleware(tokens *auth.TokenManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			apperrors.HandleError(c, apperrors.ErrLoginRequired)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apperrors.HandleError(c, apperrors.ErrTokenExpired)
			} else {
				apperrors.HandleError(c, apperrors.ErrInvalidToken)
			}
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				apperrors.HandleError(c, apperrors.ErrInvalidToken)
			} else {
				apperrors.HandleError(c, apperrors.InternalError(err))
			}
			return
		}

		c.Set(contextkeys.UserKey, user)
		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.UserRoleKey, user.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// RequireRoles пропускает запрос, только если у пользователя есть одна из ролей.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			apperrors.HandleError(c, apperrors.ErrLoginRequired)
			return
		}

		if !auth.HasRole(user.Role, roles...) {
			apperrors.HandleError(c, apperrors.NewForbiddenError(
				fmt.Sprintf("Role: %s is not allowed to access this resource", user.Role),
			))
			return
		}

		c.Next()
	}
}

// CurrentUser возвращает пользователя из AuthMiddleware или nil.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(contextkeys.UserKey)
	if !exists {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}
