package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CookieConfig параметры cookie авторизации.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cookie:      cookie,
	}
}

func (h *AuthHandler) RegisterRoutes(public, user *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.GET("/logout", h.Logout)
	public.POST("/password/forgot", h.ForgotPassword)
	public.PUT("/password/reset/:token", h.ResetPassword)

	user.GET("/me", h.GetMe)
	user.PUT("/password/update", h.UpdatePassword)
	user.PUT("/me/update", h.UpdateProfile)
}

// avatarFrom принимает аватар из поля "avatar" или "image".
func avatarFrom(c *gin.Context) *multipart.FileHeader {
	return FormFile(c, "avatar", "image")
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate(c, &req) {
		return
	}
	req.Avatar = avatarFrom(c)

	res, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.sendToken(c, http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, res)
}

// Logout только сбрасывает cookie. Выданные токены действуют до истечения срока.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookie.Secure, true)
	respondOK(c, gin.H{"message": "Logged Out"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	sentTo, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": fmt.Sprintf("Email sent to %s successfully", sentTo)})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	res, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, res)
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetMe(c.Request.Context(), current.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user": user})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	res, err := h.authService.UpdatePassword(c.Request.Context(), current.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, res)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate(c, &req) {
		return
	}
	req.Avatar = avatarFrom(c)

	user, err := h.authService.UpdateProfile(c.Request.Context(), current.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user": user})
}

// sendToken ставит cookie и дублирует токен в теле ответа.
func (h *AuthHandler) sendToken(c *gin.Context, status int, res *dto.AuthResult) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, res.Token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)

	c.JSON(status, gin.H{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}
