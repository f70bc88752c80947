package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"storefront_backend/internal/imageprocessor"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/storage"
	"storefront_backend/pkg/apperrors"
)

const (
	FolderAvatars  = "avatars"
	FolderProducts = "products"
)

// ImageService сохраняет аватары и изображения товаров в хранилище.
type ImageService interface {
	// Upload проверяет, уменьшает и сохраняет все файлы или ни одного.
	Upload(ctx context.Context, folder string, files []*multipart.FileHeader) ([]models.Image, error)
	// Delete удаляет файлы. Ошибки только логируются.
	Delete(ctx context.Context, images ...models.Image)
}

// UploadConfig ограничения на загружаемые файлы.
type UploadConfig struct {
	MaxFileSize  int64
	MaxFiles     int
	AllowedTypes []string
}

func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:  5 << 20,
		MaxFiles:     10,
		AllowedTypes: []string{"image/png", "image/jpg", "image/jpeg"},
	}
}

type imageService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    *UploadConfig
}

func NewImageService(store storage.Storage, processor *imageprocessor.Processor, config *UploadConfig) ImageService {
	if config == nil {
		config = DefaultUploadConfig()
	}
	return &imageService{
		storage:   store,
		processor: processor,
		config:    config,
	}
}

func (s *imageService) Upload(ctx context.Context, folder string, files []*multipart.FileHeader) ([]models.Image, error) {
	if s.config.MaxFiles > 0 && len(files) > s.config.MaxFiles {
		return nil, apperrors.ErrTooManyFiles
	}
	// Отклоняем весь пакет до записи.
	for _, fh := range files {
		if err := s.validateFile(fh); err != nil {
			return nil, err
		}
	}

	images := make([]models.Image, 0, len(files))
	for _, fh := range files {
		img, err := s.store(ctx, folder, fh)
		if err != nil {
			s.Delete(ctx, images...)
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *imageService) validateFile(fh *multipart.FileHeader) error {
	if s.config.MaxFileSize > 0 && fh.Size > s.config.MaxFileSize {
		return apperrors.ErrFileTooLarge
	}
	if !s.isAllowedType(fh.Header.Get("Content-Type")) {
		return apperrors.ErrInvalidFileType
	}
	return nil
}

func (s *imageService) isAllowedType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, allowed := range s.config.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func (s *imageService) store(ctx context.Context, folder string, fh *multipart.FileHeader) (models.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Image{}, apperrors.InternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.limit()))
	if err != nil {
		return models.Image{}, apperrors.InternalError(err)
	}
	if s.config.MaxFileSize > 0 && int64(len(data)) > s.config.MaxFileSize {
		return models.Image{}, apperrors.ErrFileTooLarge
	}

	processed, err := s.processor.Process(data)
	if err != nil {
		logger.CtxWarn(ctx, "Rejected upload", "filename", fh.Filename, "error", err)
		return models.Image{}, apperrors.ErrInvalidImage.WithError(err)
	}

	ext := processed.Format
	if ext == "jpeg" {
		ext = "jpg"
	}
	key := storage.NewKey(folder, ext)
	if err := s.storage.Save(ctx, key, bytes.NewReader(processed.Data), processed.ContentType); err != nil {
		return models.Image{}, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "upload", "Failed to store image", http.StatusInternalServerError)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		s.deleteKeys(ctx, []string{key})
		return models.Image{}, apperrors.InternalError(err)
	}

	logger.CtxDebug(ctx, "Image stored", "key", key, "width", processed.Width, "height", processed.Height)
	return models.Image{Key: key, URL: url}, nil
}

// limit читает на байт больше максимума, чтобы заметить слишком большие файлы.
func (s *imageService) limit() int64 {
	if s.config.MaxFileSize <= 0 {
		return 1 << 30
	}
	return s.config.MaxFileSize + 1
}

func (s *imageService) Delete(ctx context.Context, images ...models.Image) {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		key := img.Key
		if key == "" && img.URL != "" {
			key = s.storage.PathFromURL(img.URL)
		}
		if key != "" {
			keys = append(keys, key)
		}
	}
	s.deleteKeys(ctx, keys)
}

func (s *imageService) deleteKeys(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.storage.DeleteMany(ctx, keys); err != nil {
		logger.CtxWithError(ctx, "Failed to delete blobs", err, "keys", keys)
	}
}
