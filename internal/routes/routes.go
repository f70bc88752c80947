package routes

import (
	"storefront_backend/internal/handlers"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/middleware"
	"storefront_backend/internal/models"
	"storefront_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
// authMiddleware определяет пользователя по cookie или bearer токену.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	authMiddleware gin.HandlerFunc,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)
	if appHandlers.FileHandler != nil {
		appHandlers.FileHandler.RegisterRoutes(ginRouter)
	}

	api := ginRouter.Group("/api/v1")
	user := api.Group("", authMiddleware)
	admin := user.Group("/admin", middleware.RequireRoles(models.UserRoleAdmin))

	appHandlers.AuthHandler.RegisterRoutes(api, user)
	appHandlers.UserHandler.RegisterRoutes(admin)
	appHandlers.ProductHandler.RegisterRoutes(api, admin)
	appHandlers.OrderHandler.RegisterRoutes(user, admin)
	appHandlers.CouponHandler.RegisterRoutes(user, admin)
	appHandlers.SubscriptionHandler.RegisterRoutes(api, user, admin)
	appHandlers.PaymentHandler.RegisterRoutes(api, user)

	// Лента заказов для администратора.
	admin.GET("/live/orders", wsHandler.ServeWS)
	logger.Info("WebSocket route /api/v1/admin/live/orders registered")
}
