package handlers

import (
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler управление аккаунтами для администратора.
type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/users", h.ListUsers)
	admin.GET("/user/:id", h.GetUser)
	admin.PUT("/user/:id", h.UpdateUser)
	admin.DELETE("/user/:id", h.DeleteUser)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.UserQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	users, total, err := h.userService.ListUsers(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"users":         users,
		"usersCount":    total,
		"page":          query.Page,
		"resultPerPage": query.PageSize,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), current.ID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), current.ID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "User deleted successfully"})
}
