package handlers

import (
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(public, user *gin.RouterGroup) {
	public.GET("/payment/config", h.GetConfig)
	user.POST("/payment/process", h.ProcessPayment)
}

func (h *PaymentHandler) GetConfig(c *gin.Context) {
	respondOK(c, gin.H{"payment": h.paymentService.Config()})
}

func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.ProcessPaymentRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	res, err := h.paymentService.Process(c.Request.Context(), current, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"payment": res})
}
