package apperrors

import (
	"storefront_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse тело ответа при ошибке.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
	Details any       `json:"details,omitempty"`
}

type GinErrorHandler struct {
	Debug bool
}

// HandleGinError пишет ошибку в JSON и логирует её. 5xx как error, 4xx как warn.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	log := logger.FromContext(c.Request.Context()).With(
		"code", appErr.Code,
		"domain", appErr.Domain,
		"path", c.Request.URL.Path,
	)
	if appErr.HTTPCode >= 500 {
		log.Error(appErr.Message, "error", appErr.Unwrap())
	} else {
		log.Warn(appErr.Message)
	}

	resp := ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}
	if h.Debug && appErr.HTTPCode >= 500 && appErr.Err != nil && resp.Details == nil {
		resp.Details = appErr.Err.Error()
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, resp)
}

var defaultHandler = &GinErrorHandler{}

// SetDebug добавляет причину 5xx ошибок в ответ. Не включать в production.
func SetDebug(debug bool) {
	defaultHandler = &GinErrorHandler{Debug: debug}
}

func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}
