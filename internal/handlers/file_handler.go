package handlers

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/storage"
	"storefront_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler отдаёт файлы локального хранилища.
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, storage storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storage,
	}
}

func (h *FileHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/files/*key", h.ServeFile)
	r.HEAD("/files/*key", h.CheckFileExists)
}

// ServeFile отдаёт файл по ключу.
func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	ctx := c.Request.Context()

	reader, err := h.storage.Get(ctx, key)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewNotFoundError("file", "File not found"))
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("Content-Disposition", "inline")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxWithError(ctx, "Failed to stream file", err, "key", key)
	}
}

func (h *FileHandler) CheckFileExists(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	exists, err := h.storage.Exists(c.Request.Context(), key)
	if err != nil || !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}
