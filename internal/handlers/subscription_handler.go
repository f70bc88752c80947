package handlers

import (
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(public, user, admin *gin.RouterGroup) {
	public.GET("/subscription/plans", h.GetPlans)

	user.POST("/subscription/new", h.Subscribe)
	user.GET("/subscription/me", h.MySubscriptions)
	user.PUT("/subscription/me/cancel", h.CancelMine)

	admin.GET("/subscriptions", h.ListSubscriptions)
	admin.GET("/subscription/:id", h.GetSubscription)
	admin.PUT("/subscription/:id", h.UpdateSubscription)
	admin.DELETE("/subscription/:id", h.DeleteSubscription)
}

func (h *SubscriptionHandler) GetPlans(c *gin.Context) {
	respondOK(c, gin.H{"plans": h.subscriptionService.Plans()})
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Subscribe(c.Request.Context(), current, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) MySubscriptions(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var query dto.SubscriptionQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	subs, total, err := h.subscriptionService.MySubscriptions(c.Request.Context(), current.ID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"subscriptions": subs, "subscriptionsCount": total})
}

func (h *SubscriptionHandler) CancelMine(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.CancelMine(c.Request.Context(), current.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	var query dto.SubscriptionQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	subs, total, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"subscriptions": subs, "subscriptionsCount": total})
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	var req dto.UpdateSubscriptionRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	sub, err := h.subscriptionService.UpdateSubscription(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	if err := h.subscriptionService.DeleteSubscription(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Subscription deleted successfully"})
}
