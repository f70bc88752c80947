package handlers

import (
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	*BaseHandler
	couponService services.CouponService
}

func NewCouponHandler(base *BaseHandler, couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		BaseHandler:   base,
		couponService: couponService,
	}
}

func (h *CouponHandler) RegisterRoutes(user, admin *gin.RouterGroup) {
	user.POST("/coupon/apply", h.ApplyCoupon)

	admin.GET("/coupons", h.ListCoupons)
	admin.POST("/coupon/new", h.CreateCoupon)
	admin.GET("/coupon/:id", h.GetCoupon)
	admin.PUT("/coupon/:id", h.UpdateCoupon)
	admin.DELETE("/coupon/:id", h.DeleteCoupon)
}

func (h *CouponHandler) ApplyCoupon(c *gin.Context) {
	var req dto.ApplyCouponRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	quote, err := h.couponService.ApplyCoupon(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"coupon": quote})
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var query dto.CouponQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	coupons, total, err := h.couponService.ListCoupons(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"coupons": coupons, "couponsCount": total})
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.couponService.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"coupon": coupon})
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateCouponRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), current.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"coupon": coupon})
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var req dto.UpdateCouponRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"coupon": coupon})
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.couponService.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Coupon deleted successfully"})
}
