package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"storefront_backend/internal/logger"
	"storefront_backend/pkg/apperrors"
	"storefront_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextkeys.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.HTTPLog(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"request_id", logger.GetRequestID(c.Request.Context()),
		)
	}
}

// RecoveryMiddleware превращает panic в JSON 500 и логирует стек.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.CtxError(c.Request.Context(), "panic recovered",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				apperrors.HandleError(c, apperrors.InternalError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		c.Next()
	}
}

func NoRouteHandler(c *gin.Context) {
	apperrors.HandleError(c, apperrors.NewNotFoundError("route", fmt.Sprintf("Route %s not found", c.Request.URL.Path)))
}

func NoMethodHandler(c *gin.Context) {
	apperrors.HandleError(c, apperrors.New(apperrors.CodeInvalidOperation, "route", "Method not allowed", http.StatusMethodNotAllowed))
}
