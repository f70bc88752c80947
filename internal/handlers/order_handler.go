package handlers

import (
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	*BaseHandler
	orderService services.OrderService
}

func NewOrderHandler(base *BaseHandler, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  base,
		orderService: orderService,
	}
}

func (h *OrderHandler) RegisterRoutes(user, admin *gin.RouterGroup) {
	user.POST("/order/new", h.Checkout)
	user.GET("/order/:id", h.GetOrder)
	user.GET("/orders/me", h.MyOrders)

	admin.GET("/orders", h.ListOrders)
	admin.PUT("/order/:id", h.UpdateOrderStatus)
	admin.DELETE("/order/:id", h.DeleteOrder)
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), current, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"order": order})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), current, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"order": order})
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var query dto.OrderQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	orders, total, err := h.orderService.MyOrders(c.Request.Context(), current.ID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"orders": orders, "ordersCount": total})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var query dto.OrderQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	list, err := h.orderService.ListOrders(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"orders":      list.Orders,
		"ordersCount": list.Total,
		"totalAmount": list.TotalAmount,
	})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"order": order})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Order deleted successfully"})
}
